package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"growshare-backend/internal/service"
)

type InboxHandler struct {
	noteSvc     service.NotificationService
	activitySvc service.ActivityService
}

func NewInboxHandler(noteSvc service.NotificationService, activitySvc service.ActivityService) *InboxHandler {
	return &InboxHandler{noteSvc: noteSvc, activitySvc: activitySvc}
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Total         int32                  `json:"total"`
}

type activityListResponse struct {
	Activities []activityResponse `json:"activities"`
	Total      int32              `json:"total"`
	Points     int32              `json:"points"`
}

func (h *InboxHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	notes, total, err := h.noteSvc.GetNotifications(ctx, currentUser(r).ID, page, pageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationListResponse{Notifications: mapNotifications(notes), Total: total})
}

func (h *InboxHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.noteSvc.MarkAsRead(ctx, currentUser(r).ID, mux.Vars(r)["id"]); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InboxHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	user := currentUser(r)
	acts, total, err := h.activitySvc.ListActivities(ctx, user.ID, page, pageSize)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, activityListResponse{Activities: mapActivities(acts), Total: total, Points: user.Points})
}
