package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futureppo/groupexport/internal/command"
	"github.com/futureppo/groupexport/internal/config"
	"github.com/futureppo/groupexport/internal/onebot"
	"go.uber.org/zap"
)

// stubClient serves one group's roster and records uploads.
type stubClient struct {
	uploads chan string
}

func (s *stubClient) GetGroupMemberList(context.Context, int64) ([]json.RawMessage, error) {
	return []json.RawMessage{json.RawMessage(`{"user_id":1}`)}, nil
}

func (s *stubClient) GetGroupList(context.Context) ([]onebot.Group, error) {
	return nil, nil
}

func (s *stubClient) UploadGroupFile(_ context.Context, _ int64, _, name string) error {
	s.uploads <- name
	return nil
}

func (s *stubClient) UploadPrivateFile(_ context.Context, _ int64, _, name string) error {
	s.uploads <- name
	return nil
}

// stubMessenger records sent texts.
type stubMessenger struct {
	sent chan string
}

func (s *stubMessenger) SendGroupMessage(_ context.Context, _ int64, text string) error {
	s.sent <- text
	return nil
}

func (s *stubMessenger) SendPrivateMessage(_ context.Context, _ int64, text string) error {
	s.sent <- text
	return nil
}

func newTestServer() (*Server, *stubClient, *stubMessenger) {
	client := &stubClient{uploads: make(chan string, 8)}
	messenger := &stubMessenger{sent: make(chan string, 8)}
	bot := &config.BotConfig{ExportCommand: "导出群数据", ExportAllCommand: "导出所有群数据"}
	handler := command.NewHandler(client, bot, zap.NewNop())
	srv := NewServer(handler, messenger, &config.ServerConfig{Host: "localhost", Port: 0}, zap.NewNop())
	return srv, client, messenger
}

func waitFor(t *testing.T, ch chan string, what string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		return ""
	}
}

func TestHandleEventDispatchesCommand(t *testing.T) {
	srv, client, messenger := newTestServer()
	body := `{"post_type":"message","message_type":"group","group_id":123,"user_id":1,"raw_message":"导出群数据"}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.handleEvent(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: %d", rec.Code)
	}
	if got := waitFor(t, messenger.sent, "progress message"); got != "正在导出本群数据..." {
		t.Errorf("progress: %q", got)
	}
	if got := waitFor(t, client.uploads, "upload"); got != "群聊123的1名成员的数据.xlsx" {
		t.Errorf("upload name: %q", got)
	}
}

func TestHandleEventIgnoresNonMessagePosts(t *testing.T) {
	srv, client, _ := newTestServer()
	body := `{"post_type":"meta_event","meta_event_type":"heartbeat"}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.handleEvent(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status: %d", rec.Code)
	}
	select {
	case name := <-client.uploads:
		t.Errorf("unexpected upload: %q", name)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleEventBadBody(t *testing.T) {
	srv, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.handleEvent(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("body: %v", resp)
	}
}

func TestPrivateReplierRouting(t *testing.T) {
	srv, client, messenger := newTestServer()
	ev := &onebot.MessageEvent{PostType: "message", MessageType: "private", UserID: 7, RawMessage: "导出群数据 55"}

	srv.Dispatch(context.Background(), ev)

	if got := waitFor(t, messenger.sent, "progress"); !strings.Contains(got, "55") {
		t.Errorf("progress: %q", got)
	}
	if got := waitFor(t, client.uploads, "upload"); !strings.Contains(got, "群聊55") {
		t.Errorf("upload: %q", got)
	}
}
