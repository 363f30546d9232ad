package service

import "errors"

var (
	// Not found
	ErrLoopNotFound     = errors.New("loop not found")
	ErrReactionNotFound = errors.New("reaction not found")

	// Forbidden: the loop exists but belongs to someone else
	ErrNotOwner = errors.New("loop does not belong to this user")

	// Invalid input, rejected before touching storage
	ErrTitleRequired     = errors.New("title is required")
	ErrEmojiRequired     = errors.New("emoji is required")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidStatus     = errors.New("invalid streak status")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
)
