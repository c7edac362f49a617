package apiclient

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "tok-123")
}

func TestToggleLike_SendsBearerToken(t *testing.T) {
	var gotAuth, gotMethod, gotPath string
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(LikeResult{Liked: true, LikesCount: 7})
	})

	res, err := c.ToggleLike("st-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("auth header: got %q", gotAuth)
	}
	if gotMethod != "POST" || gotPath != "/v1/stories/st-1/like" {
		t.Fatalf("request: got %s %s", gotMethod, gotPath)
	}
	if !res.Liked || res.LikesCount != 7 {
		t.Fatalf("result: %+v", res)
	}
}

func TestDoRequest_SentinelErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, "unauthorized", ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "forbidden", ErrForbidden},
		{"not found", http.StatusNotFound, "not_found", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(errorEnvelope{Error: apiError{Code: tt.code, Message: "nope"}})
			})

			_, err := c.FetchStory("st-1")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDoRequest_StructuredError(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorEnvelope{Error: apiError{Code: "bad_request", Message: "content required"}})
	})

	_, err := c.CreateComment("st-1", "", "")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err type: %T", err)
	}
	if apiErr.Code != "bad_request" {
		t.Fatalf("code: got %q", apiErr.Code)
	}
}

func TestDoRequest_UnstructuredError(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	})

	err := c.IncrementView("st-1")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateComment_Body(t *testing.T) {
	var got map[string]string
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(map[string]string{"id": "cm-1"})
	})

	if _, err := c.CreateComment("st-1", "hello", "cm-parent"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got["content"] != "hello" || got["parent_id"] != "cm-parent" {
		t.Fatalf("body: %v", got)
	}

	if _, err := c.CreateComment("st-1", "top", ""); err != nil {
		t.Fatalf("create top-level: %v", err)
	}
	if _, ok := got["parent_id"]; ok {
		t.Fatal("top-level create should omit parent_id")
	}
}

func TestIncrementView_NoContent(t *testing.T) {
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.IncrementView("st-1"); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestLogin_NoAuthHeader(t *testing.T) {
	var gotAuth string
	c := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(LoginResponse{Token: "tok-new"})
	})

	res, err := c.Login("a@b.c", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("login must not send auth header, got %q", gotAuth)
	}
	if res.Token != "tok-new" {
		t.Fatalf("token: %q", res.Token)
	}
}
