package services

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrValidation          = errors.New("invalid input")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrPresetNotFound      = errors.New("preset not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDuplicateRoom       = errors.New("room name already exists")
	ErrDuplicateUser       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// isDuplicateKey matches MySQL error 1062 (unique index violation).
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
