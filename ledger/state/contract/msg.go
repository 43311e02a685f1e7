package contract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Taraxa-project/networth-ledger/ledger/state/permit"
	"github.com/Taraxa-project/networth-ledger/ledger/types"
)

// Messages travel as single-key JSON objects, {"<variant>": {<fields>}}. Every closed set of
// variants is matched through a handler interface, so a new variant does not compile until
// each handler has a method for it.

type Permission string

const (
	PermissionAllInfo    Permission = "all_info"
	PermissionAmIRichest Permission = "am_i_richest"
)

func ParsePermission(s string) (Permission, error) {
	switch p := Permission(s); p {
	case PermissionAllInfo, PermissionAmIRichest:
		return p, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPermission, s)
}

////////////////////////////////////////////////////////////////////////////
// Mutations

type ExecuteMsg interface {
	Name() string
	dispatch(h executeHandler, sender types.Identity) error
}

type executeHandler interface {
	submitNetWorth(sender types.Identity, msg *SubmitNetWorth) error
	setViewingKey(sender types.Identity, msg *SetViewingKey) error
	revokePermit(sender types.Identity, msg *RevokePermit) error
}

type SubmitNetWorth struct {
	Networth types.Amount `json:"networth"`
}

type SetViewingKey struct {
	Key string `json:"key"`
}

type RevokePermit struct {
	PermitName string `json:"permit_name"`
}

func (*SubmitNetWorth) Name() string { return "submit_net_worth" }
func (*SetViewingKey) Name() string  { return "set_viewing_key" }
func (*RevokePermit) Name() string   { return "revoke_permit" }

func (self *SubmitNetWorth) dispatch(h executeHandler, sender types.Identity) error {
	return h.submitNetWorth(sender, self)
}

func (self *SetViewingKey) dispatch(h executeHandler, sender types.Identity) error {
	return h.setViewingKey(sender, self)
}

func (self *RevokePermit) dispatch(h executeHandler, sender types.Identity) error {
	return h.revokePermit(sender, self)
}

func ParseExecuteMsg(raw []byte) (ExecuteMsg, error) {
	name, body, err := splitVariant(raw)
	if err != nil {
		return nil, err
	}
	var ret ExecuteMsg
	switch name {
	case "submit_net_worth":
		ret = new(SubmitNetWorth)
	case "set_viewing_key":
		ret = new(SetViewingKey)
	case "revoke_permit":
		ret = new(RevokePermit)
	default:
		return nil, &Error{Validation, fmt.Errorf("%w %q", ErrUnknownMessage, name)}
	}
	if err := decodeStrict(body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func EncodeExecuteMsg(msg ExecuteMsg) ([]byte, error) {
	return json.Marshal(map[string]ExecuteMsg{msg.Name(): msg})
}

////////////////////////////////////////////////////////////////////////////
// Queries

type QueryMsg interface {
	Name() string
	dispatch(h queryHandler) (QueryAnswer, error)
}

type queryHandler interface {
	allInfo(msg *AllInfo) (QueryAnswer, error)
	amIRichest(msg *AmIRichest) (QueryAnswer, error)
	withPermit(msg *WithPermit) (QueryAnswer, error)
}

// AllInfo authenticates with a viewing key.
type AllInfo struct {
	Addr string `json:"addr"`
	Key  string `json:"key"`
}

// AmIRichest authenticates with a viewing key.
type AmIRichest struct {
	Addr string `json:"addr"`
	Key  string `json:"key"`
}

type WithPermit struct {
	Permit permit.Permit
	Query  PermitQuery
}

func (*AllInfo) Name() string    { return "all_info" }
func (*AmIRichest) Name() string { return "am_i_richest" }
func (*WithPermit) Name() string { return "with_permit" }

func (self *AllInfo) dispatch(h queryHandler) (QueryAnswer, error) {
	return h.allInfo(self)
}

func (self *AmIRichest) dispatch(h queryHandler) (QueryAnswer, error) {
	return h.amIRichest(self)
}

func (self *WithPermit) dispatch(h queryHandler) (QueryAnswer, error) {
	return h.withPermit(self)
}

type withPermitJSON struct {
	Permit permit.Permit   `json:"permit"`
	Query  json.RawMessage `json:"query"`
}

func (self *WithPermit) MarshalJSON() ([]byte, error) {
	query, err := json.Marshal(map[string]PermitQuery{self.Query.Name(): self.Query})
	if err != nil {
		return nil, err
	}
	return json.Marshal(withPermitJSON{self.Permit, query})
}

func (self *WithPermit) UnmarshalJSON(data []byte) error {
	var v withPermitJSON
	if err := decodeStrict(data, &v); err != nil {
		return err
	}
	query, err := ParsePermitQuery(v.Query)
	if err != nil {
		return err
	}
	for _, name := range v.Permit.Params.Permissions {
		if _, err := ParsePermission(name); err != nil {
			return &Error{Validation, err}
		}
	}
	self.Permit, self.Query = v.Permit, query
	return nil
}

func ParseQueryMsg(raw []byte) (QueryMsg, error) {
	name, body, err := splitVariant(raw)
	if err != nil {
		return nil, err
	}
	var ret QueryMsg
	switch name {
	case "all_info":
		ret = new(AllInfo)
	case "am_i_richest":
		ret = new(AmIRichest)
	case "with_permit":
		ret = new(WithPermit)
	default:
		return nil, &Error{Validation, fmt.Errorf("%w %q", ErrUnknownMessage, name)}
	}
	if err := decodeStrict(body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

func EncodeQueryMsg(msg QueryMsg) ([]byte, error) {
	return json.Marshal(map[string]QueryMsg{msg.Name(): msg})
}

////////////////////////////////////////////////////////////////////////////
// Queries answered for the signer of a permit

type PermitQuery interface {
	Name() string
	// Permission the permit has to declare for this query
	Permission() Permission
	dispatch(h permitQueryHandler, account types.Identity) (QueryAnswer, error)
}

type permitQueryHandler interface {
	permitAllInfo(account types.Identity) (QueryAnswer, error)
	permitAmIRichest(account types.Identity) (QueryAnswer, error)
}

type AllInfoWithPermit struct{}

type AmIRichestWithPermit struct{}

func (*AllInfoWithPermit) Name() string    { return "all_info" }
func (*AmIRichestWithPermit) Name() string { return "am_i_richest" }

func (*AllInfoWithPermit) Permission() Permission    { return PermissionAllInfo }
func (*AmIRichestWithPermit) Permission() Permission { return PermissionAmIRichest }

func (self *AllInfoWithPermit) dispatch(h permitQueryHandler, account types.Identity) (QueryAnswer, error) {
	return h.permitAllInfo(account)
}

func (self *AmIRichestWithPermit) dispatch(h permitQueryHandler, account types.Identity) (QueryAnswer, error) {
	return h.permitAmIRichest(account)
}

func ParsePermitQuery(raw []byte) (PermitQuery, error) {
	name, body, err := splitVariant(raw)
	if err != nil {
		return nil, err
	}
	var ret PermitQuery
	switch name {
	case "all_info":
		ret = new(AllInfoWithPermit)
	case "am_i_richest":
		ret = new(AmIRichestWithPermit)
	default:
		return nil, &Error{Validation, fmt.Errorf("%w %q", ErrUnknownMessage, name)}
	}
	if err := decodeStrict(body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

////////////////////////////////////////////////////////////////////////////
// Answers

type QueryAnswer interface {
	Name() string
	answer()
}

type AllInfoAnswer struct {
	Richest  bool         `json:"richest"`
	Networth types.Amount `json:"networth"`
}

type AmIRichestAnswer struct {
	Richest bool `json:"richest"`
}

func (*AllInfoAnswer) Name() string    { return "all_info" }
func (*AmIRichestAnswer) Name() string { return "am_i_richest" }

func (*AllInfoAnswer) answer()    {}
func (*AmIRichestAnswer) answer() {}

func EncodeQueryAnswer(answer QueryAnswer) ([]byte, error) {
	return json.Marshal(map[string]QueryAnswer{answer.Name(): answer})
}

func ParseQueryAnswer(raw []byte) (QueryAnswer, error) {
	name, body, err := splitVariant(raw)
	if err != nil {
		return nil, err
	}
	var ret QueryAnswer
	switch name {
	case "all_info":
		ret = new(AllInfoAnswer)
	case "am_i_richest":
		ret = new(AmIRichestAnswer)
	default:
		return nil, &Error{Validation, fmt.Errorf("%w %q", ErrUnknownMessage, name)}
	}
	if err := decodeStrict(body, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

////////////////////////////////////////////////////////////////////////////

func splitVariant(raw []byte) (name string, body json.RawMessage, err error) {
	var obj map[string]json.RawMessage
	if err = json.Unmarshal(raw, &obj); err != nil {
		return "", nil, &Error{Validation, fmt.Errorf("%w: %s", ErrMalformedMessage, err)}
	}
	if len(obj) != 1 {
		return "", nil, &Error{Validation, fmt.Errorf("%w: expected exactly one variant, got %d", ErrMalformedMessage, len(obj))}
	}
	for name, body = range obj {
	}
	return
}

func decodeStrict(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		// nested variants were classified already
		var classified *Error
		if errors.As(err, &classified) {
			return err
		}
		return &Error{Validation, fmt.Errorf("%w: %s", ErrMalformedMessage, err)}
	}
	return nil
}
