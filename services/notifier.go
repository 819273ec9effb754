package services

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"net/http"
	"time"

	"guidelines-cms/models"
	"guidelines-cms/repositories"

	"go.uber.org/zap"
)

// Notifier is the fire-and-forget side-effect hook: delivery failures are
// logged and never roll back the content operation that triggered them.
type Notifier interface {
	NotifyNewRevision(rev *models.Revision)
	NotifyQuestionResolved(q *models.Question, post *models.Post)
}

const expoPushURL = "https://exp.host/--/api/v2/push/send"

// expoMessageChunkSize bounds the batch size of one Expo request.
const expoMessageChunkSize = 100

type expoMessage struct {
	To    string `json:"to"`
	Sound string `json:"sound"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ExpoNotifier broadcasts to every registered device through the Expo push
// service, gzip-compressing each batch.
type ExpoNotifier struct {
	deviceRepo repositories.DeviceRepository
	client     *http.Client
	url        string
	logger     *zap.Logger
}

func NewExpoNotifier(deviceRepo repositories.DeviceRepository, logger *zap.Logger) *ExpoNotifier {
	return &ExpoNotifier{
		deviceRepo: deviceRepo,
		client:     &http.Client{Timeout: 10 * time.Second},
		url:        expoPushURL,
		logger:     logger,
	}
}

func (n *ExpoNotifier) NotifyNewRevision(rev *models.Revision) {
	go n.broadcast("New guideline published", rev.Title)
}

func (n *ExpoNotifier) NotifyQuestionResolved(q *models.Question, post *models.Post) {
	title := "Your question has been answered"
	body := q.Text
	if post.LatestRevision != nil {
		body = post.LatestRevision.Title
	}
	go n.broadcast(title, body)
}

func (n *ExpoNotifier) broadcast(title, body string) {
	devices, err := n.deviceRepo.GetAll()
	if err != nil {
		n.logger.Error("loading devices for push broadcast", zap.Error(err))
		return
	}

	for start := 0; start < len(devices); start += expoMessageChunkSize {
		end := start + expoMessageChunkSize
		if end > len(devices) {
			end = len(devices)
		}

		messages := make([]expoMessage, 0, end-start)
		for _, device := range devices[start:end] {
			messages = append(messages, expoMessage{
				To:    device.ExpoPushToken,
				Sound: "default",
				Title: title,
				Body:  body,
			})
		}

		if err := n.send(messages); err != nil {
			n.logger.Error("push broadcast chunk failed",
				zap.Int("devices", len(messages)), zap.Error(err))
		}
	}
}

func (n *ExpoNotifier) send(messages []expoMessage) error {
	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		n.logger.Warn("expo push rejected", zap.Int("status", resp.StatusCode))
	}
	return nil
}

// NoopNotifier is used by tests and environments without push credentials.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewRevision(*models.Revision)                     {}
func (NoopNotifier) NotifyQuestionResolved(*models.Question, *models.Post) {}
