// Package host runs contract calls one at a time against a persistent store. Each call sees
// the store through its own overlay; the overlay is committed as one batch when the call
// succeeds and dropped when it fails or panics.
package host

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"github.com/Taraxa-project/networth-ledger/ledger/db"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
	"github.com/Taraxa-project/networth-ledger/ledger/util"
)

type Host struct {
	mu    deadlock.Mutex
	store db.Store
	api   *contract.API
	log   *logrus.Entry
}

func (self *Host) Init(store db.Store, api *contract.API, log *logrus.Entry) *Host {
	self.store = store
	self.api = api
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	self.log = log
	return self
}

type call_id_key struct{}

// WithCallID makes the next call made with ctx log under id instead of a fresh uuid.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, call_id_key{}, id)
}

func CallID(ctx context.Context) string {
	if id, ok := ctx.Value(call_id_key{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

// Instantiate initializes the contract state unless it already exists.
func (self *Host) Instantiate(ctx context.Context) (created bool, err error) {
	err = self.run(ctx, "instantiate", nil, true, func(c *contract.Contract) (string, error) {
		exists, err := c.Instantiated()
		if err != nil || exists {
			return "instantiate", err
		}
		created = true
		return "instantiate", c.Instantiate()
	})
	if err != nil {
		created = false
	}
	return
}

func (self *Host) Execute(ctx context.Context, sender string, raw []byte) error {
	fields := logrus.Fields{"sender": sender}
	return self.run(ctx, "execute", fields, true, func(c *contract.Contract) (string, error) {
		msg, err := contract.ParseExecuteMsg(raw)
		if err != nil {
			return "", err
		}
		id, err := self.api.Config().Codec.Validate(sender)
		if err != nil {
			return msg.Name(), &contract.Error{Kind: contract.Validation, Err: err}
		}
		return msg.Name(), c.Execute(id, msg)
	})
}

func (self *Host) Query(ctx context.Context, raw []byte) (ret []byte, err error) {
	err = self.run(ctx, "query", nil, false, func(c *contract.Contract) (string, error) {
		msg, err := contract.ParseQueryMsg(raw)
		if err != nil {
			return "", err
		}
		answer, err := c.Query(msg)
		if err != nil {
			return msg.Name(), err
		}
		ret, err = contract.EncodeQueryAnswer(answer)
		return msg.Name(), err
	})
	if err != nil {
		ret = nil
	}
	return
}

// Outcome reads the current outcome without authentication. It is not exposed over rpc.
func (self *Host) Outcome(ctx context.Context) (ret contract.Outcome, err error) {
	err = self.run(ctx, "query", nil, false, func(c *contract.Contract) (string, error) {
		var err error
		ret, err = c.Outcome()
		return "outcome", err
	})
	return
}

func (self *Host) run(ctx context.Context, kind string, fields logrus.Fields, write bool, f func(*contract.Contract) (string, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	self.mu.Lock()
	defer self.mu.Unlock()

	start := time.Now()
	var overlay *db.Overlay
	if write {
		overlay = db.NewOverlay(self.store)
	} else {
		overlay = db.NewReadOnlyOverlay(self.store)
	}
	msg_name, err := invoke(self.api.NewContract(overlay), f)
	if err == nil {
		err = overlay.Commit()
	}
	if err != nil {
		overlay.Discard()
	}

	entry := self.log.WithFields(fields).WithFields(logrus.Fields{
		"call_id":  CallID(ctx),
		"kind":     kind,
		"msg":      msg_name,
		"duration": time.Since(start),
	})
	if err == nil {
		entry.Debug("call succeeded")
		return nil
	}
	kind_of_err := contract.KindOf(err)
	entry = entry.WithField("error_kind", kind_of_err.String()).WithError(err)
	if kind_of_err == contract.StorageFailure {
		entry.Error("call failed")
	} else {
		entry.Info("call rejected")
	}
	return err
}

func invoke(c *contract.Contract, f func(*contract.Contract) (string, error)) (msg_name string, err error) {
	defer util.RecoverTo(&err)
	msg_name, err = f(c)
	return
}
