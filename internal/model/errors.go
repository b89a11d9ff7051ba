package model

// ErrorKind is the single user-visible error slot. ErrNone means no error is shown.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrLoadFailed
	ErrEmptyTitle
	ErrAddFailed
	ErrDeleteFailed
	// ErrUpdateFailed is reserved; no current flow updates items.
	ErrUpdateFailed
)

// Message is the text shown in the error banner.
func (k ErrorKind) Message() string {
	switch k {
	case ErrLoadFailed:
		return "Unable to load todos"
	case ErrEmptyTitle:
		return "Title should not be empty"
	case ErrAddFailed:
		return "Unable to add a todo"
	case ErrDeleteFailed:
		return "Unable to delete a todo"
	case ErrUpdateFailed:
		return "Unable to update a todo"
	}
	return ""
}

func (k ErrorKind) String() string {
	switch k {
	case ErrLoadFailed:
		return "load_failed"
	case ErrEmptyTitle:
		return "empty_title"
	case ErrAddFailed:
		return "add_failed"
	case ErrDeleteFailed:
		return "delete_failed"
	case ErrUpdateFailed:
		return "update_failed"
	}
	return "none"
}
