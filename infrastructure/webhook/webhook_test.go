package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gridwatch/domain/entities"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestGenericNotifier_SendReport(t *testing.T) {
	var gotFields map[string]string
	var gotFile []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		gotFields = map[string]string{}
		for key := range r.MultipartForm.Value {
			gotFields[key] = r.FormValue(key)
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "no file", http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Filename != "solar_dashboard.png" {
			t.Errorf("filename = %s", header.Filename)
		}
		if ct := header.Header.Get("Content-Type"); ct != "image/png" {
			t.Errorf("file content type = %s", ct)
		}

		buf := make([]byte, header.Size)
		if _, err := io.ReadFull(file, buf); err != nil {
			t.Errorf("reading file part: %v", err)
		}
		gotFile = buf

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewGenericNotifier(server.URL, "https://site.example", 5*time.Second, quietLogger())

	capture := entities.Capture{
		Data:    []byte("fake-png-bytes"),
		TakenAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	result := entities.Classification{Status: entities.StatusOnline, Reason: "test"}

	if err := n.SendReport(context.Background(), capture, result); err != nil {
		t.Fatalf("SendReport: %v", err)
	}

	if gotFields["source"] != "gridwatch" {
		t.Fatalf("source = %q", gotFields["source"])
	}
	if gotFields["site"] != "https://site.example" {
		t.Fatalf("site = %q", gotFields["site"])
	}
	if gotFields["status"] != "online" {
		t.Fatalf("status = %q", gotFields["status"])
	}
	if gotFields["timestamp"] != "2026-03-10T12:00:00Z" {
		t.Fatalf("timestamp = %q", gotFields["timestamp"])
	}
	if string(gotFile) != "fake-png-bytes" {
		t.Fatalf("file body = %q", gotFile)
	}
}

func TestGenericNotifier_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	n := NewGenericNotifier(server.URL, "site", 5*time.Second, quietLogger())
	err := n.SendAlert(context.Background(), entities.AlertEvent{Status: entities.StatusOffline}, entities.Capture{Data: []byte("x")})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestGenericNotifier_PlaceholderURLSkipsSend(t *testing.T) {
	n := NewGenericNotifier(placeholderURL, "site", 5*time.Second, quietLogger())
	if err := n.SendReport(context.Background(), entities.Capture{Data: []byte("x")}, entities.Classification{}); err != nil {
		t.Fatalf("placeholder URL must be a silent no-op, got %v", err)
	}
}

func TestDiscordNotifier_SendAlertPayload(t *testing.T) {
	var payload discordPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		raw := r.FormValue("payload_json")
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			t.Errorf("payload_json unmarshal: %v", err)
		}

		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing attachment: %v", err)
		}

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, "https://site.example", 5*time.Second, quietLogger())

	event := entities.AlertEvent{
		Status:     entities.StatusOffline,
		Previous:   entities.StatusOnline,
		Message:    "Grid went OFFLINE",
		ObservedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	if err := n.SendAlert(context.Background(), event, entities.Capture{Data: []byte("png")}); err != nil {
		t.Fatalf("SendAlert: %v", err)
	}

	if payload.Content != "Grid went OFFLINE" {
		t.Fatalf("content = %q", payload.Content)
	}
	if len(payload.Embeds) != 1 {
		t.Fatalf("embeds = %d, want 1", len(payload.Embeds))
	}

	embed := payload.Embeds[0]
	if embed.Color != colorRed {
		t.Fatalf("color = %d, want %d for offline alert", embed.Color, colorRed)
	}
	if embed.Image.URL != "attachment://solar_dashboard.png" {
		t.Fatalf("image url = %q", embed.Image.URL)
	}
	if embed.Timestamp != "2026-03-10T12:00:00Z" {
		t.Fatalf("timestamp = %q", embed.Timestamp)
	}
}

func TestDiscordNotifier_ReportColorsFollowStatus(t *testing.T) {
	var payload discordPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		json.Unmarshal([]byte(r.FormValue("payload_json")), &payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, "site", 5*time.Second, quietLogger())
	capture := entities.Capture{Data: []byte("png"), TakenAt: time.Now()}

	tests := []struct {
		status entities.Status
		color  int
	}{
		{entities.StatusOnline, colorGreen},
		{entities.StatusOffline, colorRed},
		{entities.StatusUnknown, colorGrey},
	}

	for _, tt := range tests {
		if err := n.SendReport(context.Background(), capture, entities.Classification{Status: tt.status}); err != nil {
			t.Fatalf("SendReport(%s): %v", tt.status, err)
		}
		if payload.Embeds[0].Color != tt.color {
			t.Fatalf("color for %s = %d, want %d", tt.status, payload.Embeds[0].Color, tt.color)
		}
	}
}

func TestDiscordNotifier_RejectsUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	n := NewDiscordNotifier(server.URL, "site", 5*time.Second, quietLogger())
	err := n.SendReport(context.Background(), entities.Capture{Data: []byte("png")}, entities.Classification{Status: entities.StatusOnline})
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
