package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"textend/internal/models"
)

func decodeLike(t *testing.T, body []byte) LikeResponse {
	t.Helper()
	var resp LikeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode like response %q: %v", body, err)
	}
	return resp
}

func TestLikeContract(t *testing.T) {
	post := publishedPost("likeable", "Body")
	draft := publishedPost("unpublished", "Body")
	draft.Status = models.PostStatusDraft
	env := newTestEnv(t, post, draft)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantMsg    string
	}{
		{"missing cid", "/action/likes", 0, msgLikeMissing},
		{"invalid cid", "/action/likes?cid=42", 0, msgLikeMissing},
		{"unknown post", "/action/likes?cid=" + uuid.NewString(), 0, msgLikeMissing},
		{"draft post", "/action/likes?cid=" + draft.ID.String(), 0, msgLikeMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("HTTP status: got %d, want 200", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
				t.Errorf("Content-Type: got %q", ct)
			}
			resp := decodeLike(t, rec.Body.Bytes())
			if resp.Status != tt.wantStatus || resp.Msg != tt.wantMsg {
				t.Errorf("got %+v, want status %d msg %q", resp, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestLikeOncePerVisitor(t *testing.T) {
	post := publishedPost("likeable", "Body")
	env := newTestEnv(t, post)
	target := "/action/likes?cid=" + post.ID.String()

	first := env.do(target, nil)
	resp := decodeLike(t, first.Body.Bytes())
	if resp.Status != 1 || resp.Msg != msgLikeDone || resp.Likes != 1 {
		t.Fatalf("first like: got %+v", resp)
	}
	cookie := visitorCookie(t, first)

	second := decodeLike(t, env.do(target, cookie).Body.Bytes())
	if second.Status != 0 || second.Msg != msgLikeAgain {
		t.Errorf("second like: got %+v", second)
	}

	other := decodeLike(t, env.do(target, nil).Body.Bytes())
	if other.Status != 1 || other.Likes != 2 {
		t.Errorf("other visitor: got %+v", other)
	}

	stored, _ := env.Posts.FindByID(post.ID)
	if stored.LikesNum != 2 {
		t.Errorf("likes_num: got %d, want 2", stored.LikesNum)
	}
}
