package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Messages returned by the like action.
const (
	msgLikeMissing = "Please choose an article to like!"
	msgLikeDone    = "Liked!"
	msgLikeAgain   = "You have already liked this article!"
	msgLikeFailed  = "Your like could not be recorded, please try again."
)

// LikeResponse is the JSON body of the like action. Status is 1 when the
// like was recorded and 0 otherwise.
type LikeResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Likes  int    `json:"likes,omitempty"`
}

// Actions serves the small JSON endpoints article pages call back into.
type Actions struct {
	posts    PostStore
	visitors Visitors
}

// NewActions creates the action handler group.
func NewActions(posts PostStore, visitors Visitors) *Actions {
	return &Actions{posts: posts, visitors: visitors}
}

// Like records one like per visitor: GET /action/likes?cid={post id}.
// Every outcome is a 200 with a status field; the script reading it only
// looks at status.
func (a *Actions) Like(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.URL.Query().Get("cid"))
	if err != nil {
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeMissing})
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("like: find post failed", "error", err, "post", id)
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeFailed})
		return
	}
	if post == nil || !post.IsPublished() {
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeMissing})
		return
	}

	visitorID, err := a.visitors.Identify(w, r)
	if err != nil {
		slog.Warn("like: visitor identify failed", "error", err)
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeFailed})
		return
	}

	first, err := a.visitors.MarkLiked(ctx, visitorID, id.String())
	if err != nil {
		slog.Warn("like: mark liked failed", "error", err, "post", id)
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeFailed})
		return
	}
	if !first {
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeAgain, Likes: post.LikesNum})
		return
	}

	likes, err := a.posts.IncrementLikes(id)
	if err != nil {
		slog.Error("like: increment failed", "error", err, "post", id)
		writeJSON(w, http.StatusOK, LikeResponse{Msg: msgLikeFailed})
		return
	}

	slog.Info("post liked", "post", id, "likes", likes)
	writeJSON(w, http.StatusOK, LikeResponse{Status: 1, Msg: msgLikeDone, Likes: likes})
}
