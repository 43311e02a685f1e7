package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

// Error values
var ErrWrongViewingKey = util.ErrorString("Wrong viewing key for this address or viewing key not set")
var ErrNotInstantiated = util.ErrorString("Contract state is not initialized")
var ErrAlreadyInstantiated = util.ErrorString("Contract state is already initialized")
var ErrUnknownMessage = util.ErrorString("Unknown message variant")
var ErrMalformedMessage = util.ErrorString("Malformed message")
var ErrUnknownPermission = util.ErrorString("Unknown permission")

type Kind int

const (
	// StorageFailure is also the kind of every error that was not classified
	StorageFailure Kind = iota
	Authentication
	Authorization
	Validation
	Policy
)

func (self Kind) String() string {
	switch self {
	case Authentication:
		return "authentication"
	case Authorization:
		return "authorization"
	case Validation:
		return "validation"
	case Policy:
		return "policy"
	}
	return "storage"
}

// Error carries the kind of a failure that aborted a call.
type Error struct {
	Kind Kind
	Err  error
}

func (self *Error) Error() string {
	return self.Err.Error()
}

func (self *Error) Unwrap() error {
	return self.Err
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StorageFailure
}

type AlreadySubmittedError struct {
	Networth types.Amount
}

func (self *AlreadySubmittedError) Error() string {
	return fmt.Sprintf("You have already submitted your networth: %s", self.Networth)
}

type PermissionError struct {
	Required Permission
	Granted  []Permission
}

func (self *PermissionError) Error() string {
	granted := make([]string, len(self.Granted))
	for i, p := range self.Granted {
		granted[i] = string(p)
	}
	return fmt.Sprintf("No permission to query %s, got permissions [%s]", self.Required, strings.Join(granted, ", "))
}

type RevokedPermitError struct {
	Account    types.Identity
	PermitName string
}

func (self *RevokedPermitError) Error() string {
	return fmt.Sprintf("Permit %q was revoked by account %q", self.PermitName, self.Account)
}
