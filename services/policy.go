package services

import "github.com/anjiri1684/pickleball_coach/models"

// Actor is the authenticated caller of an engine operation.
type Actor struct {
	UserID uint
	Role   models.Role
}

type Operation string

const (
	OpCreateReview      Operation = "create review request"
	OpListMyReviews     Operation = "list own review requests"
	OpCancelReview      Operation = "cancel review request"
	OpListOpenReviews   Operation = "list open review requests"
	OpListCoachReviews  Operation = "list coach review requests"
	OpAcceptReview      Operation = "accept review request"
	OpCompleteReview    Operation = "complete review request"
	OpRequestSession    Operation = "request session"
	OpConfirmSession    Operation = "confirm session"
	OpScheduleSession   Operation = "schedule session"
	OpListCoachSessions Operation = "list coach sessions"
	OpListMySessions    Operation = "list student sessions"
	OpCancelSession     Operation = "cancel session"
	OpPurchase          Operation = "purchase"
	OpListPurchases     Operation = "list purchases"
	OpCoachEarnings     Operation = "view coach earnings"
	OpManageCatalog     Operation = "manage catalog"
	OpManageTheme       Operation = "manage theme"
	OpManageUsers       Operation = "manage users"
)

var (
	studentOnly = []models.Role{models.RoleStudent}
	coachOnly   = []models.Role{models.RoleCoach}
	adminOnly   = []models.Role{models.RoleAdmin}
)

// permissions declares, once per operation, which roles may call it.
// Entity-level rules (owner, targeted coach, assigned coach) are checked by the lifecycle itself.
var permissions = map[Operation][]models.Role{
	OpCreateReview:      studentOnly,
	OpListMyReviews:     studentOnly,
	OpCancelReview:      studentOnly,
	OpListOpenReviews:   coachOnly,
	OpListCoachReviews:  coachOnly,
	OpAcceptReview:      coachOnly,
	OpCompleteReview:    coachOnly,
	OpRequestSession:    studentOnly,
	OpConfirmSession:    coachOnly,
	OpScheduleSession:   {models.RoleStudent, models.RoleCoach},
	OpListCoachSessions: coachOnly,
	OpListMySessions:    studentOnly,
	OpCancelSession:     {models.RoleStudent, models.RoleCoach},
	OpPurchase:          studentOnly,
	OpListPurchases:     studentOnly,
	OpCoachEarnings:     coachOnly,
	OpManageCatalog:     coachOnly,
	OpManageTheme:       adminOnly,
	OpManageUsers:       adminOnly,
}

func Authorize(actor Actor, op Operation) error {
	if actor.UserID == 0 {
		return &UnauthorizedError{Reason: "caller identity could not be established"}
	}
	for _, role := range permissions[op] {
		if actor.Role == role {
			return nil
		}
	}
	return &ForbiddenError{Operation: op}
}
