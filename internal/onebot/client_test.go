package onebot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", 5*time.Second)
}

func TestGetGroupMemberList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_group_member_list" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header: %q", got)
		}
		var params map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		if params["group_id"] != float64(123) {
			t.Errorf("group_id param: %v", params["group_id"])
		}
		w.Write([]byte(`{"status":"ok","retcode":0,"data":[{"user_id":1,"nickname":"a"},{"user_id":2}]}`))
	})

	members, err := client.GetGroupMemberList(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetGroupMemberList error: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("got %d members", len(members))
	}
	var first map[string]interface{}
	if err := json.Unmarshal(members[0], &first); err != nil {
		t.Fatalf("member entry not raw JSON: %v", err)
	}
	if first["nickname"] != "a" {
		t.Errorf("first member: %v", first)
	}
}

func TestGetGroupList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","retcode":0,"data":[{"group_id":5,"group_name":"Five"}]}`))
	})
	groups, err := client.GetGroupList(context.Background())
	if err != nil {
		t.Fatalf("GetGroupList error: %v", err)
	}
	if len(groups) != 1 || groups[0].GroupID != 5 || groups[0].GroupName != "Five" {
		t.Errorf("groups: %+v", groups)
	}
}

func TestUploadGroupFile(t *testing.T) {
	var gotParams map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_group_file" {
			t.Errorf("path: %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotParams)
		w.Write([]byte(`{"status":"ok","retcode":0}`))
	})
	err := client.UploadGroupFile(context.Background(), 9, "base64://AAAA", "成员.xlsx")
	if err != nil {
		t.Fatalf("UploadGroupFile error: %v", err)
	}
	if gotParams["file"] != "base64://AAAA" || gotParams["name"] != "成员.xlsx" {
		t.Errorf("params: %v", gotParams)
	}
}

func TestCallAPIErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed","retcode":100,"message":"no permission"}`))
	})
	if err := client.SendGroupMessage(context.Background(), 1, "hi"); err == nil {
		t.Error("expected error for failed envelope")
	}
}

func TestCallHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := client.GetGroupList(context.Background()); err == nil {
		t.Error("expected error for HTTP 500")
	}
}

func TestCallContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"ok","retcode":0}`))
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := client.SendPrivateMessage(ctx, 1, "hi"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
