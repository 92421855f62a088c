package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
// This abstracts away the underlying storage implementation (SQL, NoSQL, etc.)
// from the service layer.
var ErrNotFound = errors.New("record not found")

// ErrInventoryConflict is returned when an award ran out of remaining
// inventory between the caller's check and the commit.
var ErrInventoryConflict = errors.New("award inventory exhausted during commit")

// ErrEpochNotOpen is returned when a draw or advance targets a closed epoch
var ErrEpochNotOpen = errors.New("current epoch is not open")

// ErrDuplicateWin is returned when a commit would give a participant the
// same award twice or two wins in one epoch.
var ErrDuplicateWin = errors.New("participant already won this award or in this epoch")

// ErrWinCapReached is returned when a commit would exceed the lifetime win cap
var ErrWinCapReached = errors.New("participant reached the win cap")
