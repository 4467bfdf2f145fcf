package handler

import "erpsessions/internal/sessions"

// ActiveUsersResponse is the JSON body of a successful report.
type ActiveUsersResponse struct {
	Users        []sessions.UserRecord `json:"users"`
	Message      string                `json:"message"`
	AppUserCount int                   `json:"app_user_count"`
	BIUserCount  int                   `json:"bi_user_count"`
}

func toActiveUsersResponse(r *sessions.Report) ActiveUsersResponse {
	users := r.Users
	if users == nil {
		users = []sessions.UserRecord{}
	}
	return ActiveUsersResponse{
		Users:        users,
		Message:      r.Message,
		AppUserCount: r.AppUserCount,
		BIUserCount:  r.BIUserCount,
	}
}

// currentUsersPage is the data handed to current_users.html.
type currentUsersPage struct {
	Users        []sessions.UserRecord
	AppUserCount int
	BIUserCount  int
	Error        string
}
