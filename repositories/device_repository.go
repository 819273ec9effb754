package repositories

import (
	"errors"

	"guidelines-cms/models"

	"gorm.io/gorm"
)

type DeviceRepository interface {
	Register(token string) (*models.Device, error)
	DeleteByToken(token string) error
	GetAll() ([]models.Device, error)
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Register is idempotent: re-registering an existing token returns the
// existing row.
func (r *deviceRepository) Register(token string) (*models.Device, error) {
	var device models.Device
	err := r.db.Where("expo_push_token = ?", token).First(&device).Error
	if err == nil {
		return &device, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	device = models.Device{ExpoPushToken: token}
	if err := r.db.Create(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) DeleteByToken(token string) error {
	return r.db.Where("expo_push_token = ?", token).Delete(&models.Device{}).Error
}

func (r *deviceRepository) GetAll() ([]models.Device, error) {
	var devices []models.Device
	err := r.db.Find(&devices).Error
	return devices, err
}
