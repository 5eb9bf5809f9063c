package navsync

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrPostRequired        = errors.New("navsync: post is required")
	ErrPostIDRequired      = errors.New("navsync: post id is required")
	ErrMenuIDRequired      = errors.New("navsync: post meta menuId is required")
	ErrNavigationMissing   = errors.New("navsync: post has no navigation block")
	ErrMappingStoreMissing = errors.New("navsync: mapping store is required")
	ErrResolverMissing     = errors.New("navsync: item resolver is required")
	ErrCreatorMissing      = errors.New("navsync: menu item creator is required")
	ErrNonceFetcherMissing = errors.New("navsync: nonce fetcher is required")
	ErrSubmitterMissing    = errors.New("navsync: changeset submitter is required")
	ErrNonceMissing        = errors.New("navsync: save nonce not returned")
	ErrSaveRejected        = errors.New("navsync: save endpoint reported failure")
	ErrCreatedItemMissing  = errors.New("navsync: create returned no menu item")
)

const (
	TextCodeInvalidPost   = "NAVSYNC_INVALID_POST"
	TextCodeMappingFailed = "NAVSYNC_MAPPING_FAILED"
	TextCodeCreateFailed  = "NAVSYNC_CREATE_FAILED"
	TextCodeResolveFailed = "NAVSYNC_RESOLVE_FAILED"
	TextCodeLockFailed    = "NAVSYNC_LOCK_FAILED"
)

func wrapError(err error, category goerrors.Category, message, textCode string) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(textCode)
}
