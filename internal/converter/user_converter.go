package converter

import (
	"docapp/internal/delivery/dto"
	"docapp/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	return &dto.UserResponse{
		UID:       user.UID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		FullName:  user.FullName(),
		Role:      string(user.Role),
		RoleLabel: user.Role.Label(),
	}
}

func SessionToResponse(state entity.SessionState) *dto.SessionResponse {
	return &dto.SessionResponse{
		Loading:       state.Loading,
		Authenticated: state.Authenticated(),
		User:          UserToResponse(state.Identity),
	}
}

func SignupRequestToProfile(req *dto.SignupRequest) entity.SignupProfile {
	return entity.SignupProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
	}
}
