package services

import "github.com/anjiri1684/pickleball_coach/models"

type ReviewAction string

const (
	ReviewActionAccept   ReviewAction = "accept"
	ReviewActionComplete ReviewAction = "complete"
	ReviewActionCancel   ReviewAction = "cancel"
)

type SessionAction string

const (
	SessionActionConfirm SessionAction = "confirm"
	SessionActionCancel  SessionAction = "cancel"
)

var reviewTransitions = map[models.ReviewStatus]map[ReviewAction]models.ReviewStatus{
	models.ReviewOpen: {
		ReviewActionAccept: models.ReviewAccepted,
		ReviewActionCancel: models.ReviewCancelled,
	},
	models.ReviewAccepted: {
		ReviewActionComplete: models.ReviewCompleted,
	},
}

// reviewRejections is the reason reported when an action is attempted from a state that does not allow it.
var reviewRejections = map[ReviewAction]string{
	ReviewActionAccept:   "Request is no longer available",
	ReviewActionComplete: "Request must be in Accepted status to complete",
	ReviewActionCancel:   "Can only cancel open requests",
}

var sessionTransitions = map[models.SessionStatus]map[SessionAction]models.SessionStatus{
	models.SessionPending: {
		SessionActionConfirm: models.SessionConfirmed,
		SessionActionCancel:  models.SessionCancelled,
	},
	models.SessionConfirmed: {
		SessionActionCancel: models.SessionCancelled,
	},
}

var sessionRejections = map[SessionAction]string{
	SessionActionConfirm: "Only pending sessions can be confirmed",
	SessionActionCancel:  "Session is already cancelled",
}

func NextReviewStatus(from models.ReviewStatus, action ReviewAction) (models.ReviewStatus, error) {
	if to, ok := reviewTransitions[from][action]; ok {
		return to, nil
	}
	return from, illegal(reviewRejections[action])
}

func NextSessionStatus(from models.SessionStatus, action SessionAction) (models.SessionStatus, error) {
	if to, ok := sessionTransitions[from][action]; ok {
		return to, nil
	}
	return from, illegal(sessionRejections[action])
}
