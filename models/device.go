package models

// Device is a registered push-notification target.
type Device struct {
	ID            uint   `json:"id" gorm:"primarykey"`
	ExpoPushToken string `json:"expo_push_token" gorm:"uniqueIndex;not null"`
}
