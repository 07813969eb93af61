package domain

import "errors"

var (
	ErrBoardNotFound        = errors.New("board not found")
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrForbidden            = errors.New("insufficient access level")
)
