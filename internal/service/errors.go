package service

import "github.com/VibeBuddies/vibecheck-service/internal/apperr"

var errInternal = apperr.New(apperr.Internal, "internal server error")
