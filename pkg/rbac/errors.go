package rbac

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden        = errors.New("rbac: access denied")
	ErrRoleNotInContext = errors.New("rbac: role not found in context")
)

// ForbiddenError reports a failed gate check.
type ForbiddenError struct {
	Required []string
	Actual   string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("Access denied. Required roles: %s, your role: %s", strings.Join(e.Required, ", "), e.Actual)
}

// Is makes errors.Is(err, ErrForbidden) hold for every ForbiddenError.
func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }
