package authz

import (
	"github.com/google/uuid"

	"blog-backend/internal/shared/apperror"
)

type Action string

const (
	ListPosts  Action = "post:list"
	ReadPost   Action = "post:read"
	CreatePost Action = "post:create"
	UpdatePost Action = "post:update"
	DeletePost Action = "post:delete"
	LikePost   Action = "post:like"

	ListComments  Action = "comment:list"
	ReadComment   Action = "comment:read"
	CreateComment Action = "comment:create"
	UpdateComment Action = "comment:update"
	DeleteComment Action = "comment:delete"

	ListCategories   Action = "category:list"
	ReadCategory     Action = "category:read"
	ManageCategories Action = "category:manage"
)

// Owned is implemented by resources with a single immutable author.
type Owned interface {
	AuthorID() uuid.UUID
}

type rule int

const (
	ruleOpen rule = iota
	ruleAuthenticated
	ruleOwner
	ruleStaff
)

var rules = map[Action]rule{
	ListPosts:        ruleOpen,
	ReadPost:         ruleOpen,
	CreatePost:       ruleAuthenticated,
	UpdatePost:       ruleOwner,
	DeletePost:       ruleOwner,
	LikePost:         ruleAuthenticated,
	ListComments:     ruleOpen,
	ReadComment:      ruleOpen,
	CreateComment:    ruleAuthenticated,
	UpdateComment:    ruleOwner,
	DeleteComment:    ruleOwner,
	ListCategories:   ruleOpen,
	ReadCategory:     ruleOpen,
	ManageCategories: ruleStaff,
}

// Authorize decides whether p may perform action on resource. It has no side
// effects and must be called before any write. resource may be nil for
// actions that do not target an owned resource.
//
// Anonymous callers get AUTHENTICATION_REQUIRED for every non-open action;
// authenticated callers failing an owner or staff rule get PERMISSION_DENIED.
func Authorize(p *Principal, action Action, resource Owned) error {
	r, ok := rules[action]
	if !ok {
		return apperror.Permission("unknown action", nil)
	}

	if r == ruleOpen {
		return nil
	}
	if !p.IsAuthenticated() {
		return apperror.AuthenticationRequired()
	}

	switch r {
	case ruleOwner:
		if resource == nil || !p.Is(resource.AuthorID()) {
			return apperror.Permission("you do not have permission to perform this action", nil)
		}
	case ruleStaff:
		if !p.IsStaff {
			return apperror.Permission("staff privileges required", nil)
		}
	}
	return nil
}

type ownerID uuid.UUID

func (o ownerID) AuthorID() uuid.UUID { return uuid.UUID(o) }

// OwnedBy adapts a bare author id to Owned.
func OwnedBy(authorID uuid.UUID) Owned {
	return ownerID(authorID)
}
