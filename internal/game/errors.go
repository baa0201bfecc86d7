package game

import "errors"

// Operation failures are sentinel errors so callers can map them onto their
// own surfaces (HTTP status codes, close frames). Every failure leaves room
// state untouched.
var (
	// Validation: rejected before any mutation.
	ErrEmptyName       = errors.New("player name must not be empty")
	ErrInvalidPlayerID = errors.New("invalid player id")
	ErrInvalidDecision = errors.New("decision must be continue or leave")

	// Not found.
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found in this room")

	// Authorization.
	ErrNotHost = errors.New("only the host can start the game")

	// State conflicts: the caller must retry with corrected intent.
	ErrGameInProgress   = errors.New("game is already in progress")
	ErrRoomFull         = errors.New("room is full")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required")
	ErrRoundNotActive   = errors.New("round is not accepting decisions right now")
	ErrAlreadyLeft      = errors.New("you already left this round")
	ErrNoDecisionWindow = errors.New("decision window is closed")
	ErrAlreadyDecided   = errors.New("decision already submitted")
)
