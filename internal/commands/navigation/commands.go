package navigationcmd

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-navsync/internal/menus"
)

const (
	saveNavigationMessageType      = "navsync.navigation.save"
	reconcileNavigationMessageType = "navsync.navigation.reconcile"
)

var (
	ErrNavigationNotSaved = errors.New("navigation command: save endpoint did not accept the changeset")
	errPostIDBlank        = errors.New("post id cannot be blank")
	errNavigationBlocks   = errors.New("post must contain a navigation block")
)

// SaveNavigationCommand reconciles and saves a navigation post.
type SaveNavigationCommand struct {
	Post *menus.Post
	// RequireSaved turns a failed save into ErrNavigationNotSaved instead of
	// reporting it only through the notice.
	RequireSaved bool
}

// Type implements command.Message.
func (SaveNavigationCommand) Type() string { return saveNavigationMessageType }

// Validate satisfies command.Message.
func (m SaveNavigationCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Post, validation.Required, validation.By(validatePost)),
	)
}

// ReconcileNavigationCommand only creates missing menu items.
type ReconcileNavigationCommand struct {
	Post *menus.Post
}

// Type implements command.Message.
func (ReconcileNavigationCommand) Type() string { return reconcileNavigationMessageType }

// Validate satisfies command.Message.
func (m ReconcileNavigationCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Post, validation.Required, validation.By(validatePost)),
	)
}

func validatePost(value any) error {
	post, _ := value.(*menus.Post)
	if post == nil {
		return nil
	}
	if strings.TrimSpace(post.ID) == "" {
		return errPostIDBlank
	}
	if err := validation.Validate(post.Meta.MenuID, validation.Required, validation.Min(int64(1))); err != nil {
		return err
	}
	if post.NavigationBlock() == nil {
		return errNavigationBlocks
	}
	return nil
}
