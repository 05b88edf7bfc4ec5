package domain

import (
	"errors"
	"fmt"
)

// ErrIllegalArgument 调用方传入的参数无法对应到实体（HTTP 层映射为 400）
var ErrIllegalArgument = errors.New("illegal argument")

var (
	ErrPostNotFound = fmt.Errorf("%w: post not found", ErrIllegalArgument)
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrIllegalArgument)
	ErrInvalidRole  = fmt.Errorf("%w: invalid role", ErrIllegalArgument)
	ErrDuplicate    = errors.New("duplicate key")
)

type NotFoundError struct {
	Kind string
	ID   int64
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found. id = %d", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

func PostNotFound(id int64) error { return &NotFoundError{Kind: "post", ID: id, Err: ErrPostNotFound} }
func UserNotFound(id int64) error { return &NotFoundError{Kind: "user", ID: id, Err: ErrUserNotFound} }
