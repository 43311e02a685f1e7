package contract_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Taraxa-project/networth-ledger/ledger/db"
	"github.com/Taraxa-project/networth-ledger/ledger/state/contract"
	"github.com/Taraxa-project/networth-ledger/ledger/state/permit"
	"github.com/Taraxa-project/networth-ledger/ledger/types"
	"github.com/Taraxa-project/networth-ledger/ledger/util/tests"
)

var contract_address = tests.Codec.FromLabel("contract-test")

var (
	alice = tests.NewAccount(1)
	bob   = tests.NewAccount(2)
	carol = tests.NewAccount(3)
	dan   = tests.NewAccount(4)
)

// Every call runs on its own overlay and is committed only when it succeeds, as the host does.
type contractTest struct {
	tests.TestCtx
	store *db.MemDatabase
	api   *contract.API
}

func newContractTest(t *testing.T, policy contract.ResubmissionPolicy) *contractTest {
	self := &contractTest{
		TestCtx: tests.NewTestCtx(t),
		store:   db.NewMemDatabase(),
	}
	self.api = new(contract.API).Init(contract.Config{
		ContractAddress: contract_address,
		Codec:           tests.Codec,
		Resubmission:    policy,
	})
	require.NoError(t, self.call(func(c *contract.Contract) error {
		return c.Instantiate()
	}))
	return self
}

func (self *contractTest) call(f func(*contract.Contract) error) error {
	overlay := db.NewOverlay(self.store)
	if err := f(self.api.NewContract(overlay)); err != nil {
		overlay.Discard()
		return err
	}
	return overlay.Commit()
}

func (self *contractTest) execute(sender tests.Account, msg contract.ExecuteMsg) error {
	return self.call(func(c *contract.Contract) error {
		return c.Execute(sender.Identity, msg)
	})
}

func (self *contractTest) query(msg contract.QueryMsg) (ret contract.QueryAnswer, err error) {
	overlay := db.NewReadOnlyOverlay(self.store)
	return self.api.NewContract(overlay).Query(msg)
}

func (self *contractTest) submit(sender tests.Account, networth uint64) {
	self.Assert.NoError(self.execute(sender, &contract.SubmitNetWorth{Networth: types.NewAmount(networth)}))
}

func (self *contractTest) setKey(sender tests.Account, key string) {
	self.Assert.NoError(self.execute(sender, &contract.SetViewingKey{Key: key}))
}

func (self *contractTest) outcome() (ret contract.Outcome) {
	self.Assert.NoError(self.call(func(c *contract.Contract) (err error) {
		ret, err = c.Outcome()
		return
	}))
	return
}

func (self *contractTest) allInfo(acc tests.Account, key string) (*contract.AllInfoAnswer, error) {
	answer, err := self.query(&contract.AllInfo{Addr: acc.Identity.String(), Key: key})
	if err != nil {
		return nil, err
	}
	return answer.(*contract.AllInfoAnswer), nil
}

func (self *contractTest) mustAllInfo(acc tests.Account) *contract.AllInfoAnswer {
	self.setKey(acc, "key")
	ret, err := self.allInfo(acc, "key")
	require.NoError(self.T, err)
	return ret
}

func (self *contractTest) signPermit(acc tests.Account, name string, permissions ...contract.Permission) permit.Permit {
	params := permit.Params{
		PermitName:    name,
		AllowedTokens: []string{contract_address.String()},
		ChainID:       "secret-4",
	}
	for _, p := range permissions {
		params.Permissions = append(params.Permissions, string(p))
	}
	ret, err := permit.Sign(acc.Key, params)
	require.NoError(self.T, err)
	return ret
}

func TestInstantiate(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	outcome := tc.outcome()
	tc.Assert.True(outcome.Richest.IsUnset())
	tc.Assert.True(outcome.Networth.IsZero())

	err := tc.call(func(c *contract.Contract) error {
		return c.Instantiate()
	})
	tc.Assert.ErrorIs(err, contract.ErrAlreadyInstantiated)
	tc.Assert.Equal(contract.Policy, contract.KindOf(err))

	answer := tc.mustAllInfo(alice)
	tc.Assert.False(answer.Richest)
	tc.Assert.True(answer.Networth.IsZero())
}

func TestNotInstantiated(t *testing.T) {
	api := new(contract.API).Init(contract.Config{ContractAddress: contract_address, Codec: tests.Codec})
	c := api.NewContract(db.NewOverlay(db.NewMemDatabase()))

	err := c.Execute(alice.Identity, &contract.SubmitNetWorth{Networth: types.NewAmount(1)})
	require.ErrorIs(t, err, contract.ErrNotInstantiated)
	require.Equal(t, contract.StorageFailure, contract.KindOf(err))
}

func TestRichestScenarios(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 1)
	tc.submit(bob, 2)

	a := tc.mustAllInfo(alice)
	tc.Assert.False(a.Richest)
	tc.Assert.Equal("1", a.Networth.String())
	b := tc.mustAllInfo(bob)
	tc.Assert.True(b.Richest)
	tc.Assert.Equal("2", b.Networth.String())

	// first to reach the maximum keeps it
	tc.submit(carol, 2)
	tc.Assert.Equal(bob.Identity, tc.outcome().Richest)
	tc.Assert.False(tc.mustAllInfo(carol).Richest)

	tc.submit(dan, 3)
	tc.Assert.Equal(dan.Identity, tc.outcome().Richest)
	tc.Assert.Equal("3", tc.outcome().Networth.String())
	tc.Assert.False(tc.mustAllInfo(bob).Richest)
}

func TestTieNeverChangesRichest(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 5)
	for _, acc := range []tests.Account{bob, carol, dan, alice} {
		tc.submit(acc, 5)
		tc.Assert.Equal(alice.Identity, tc.outcome().Richest)
	}
}

func TestOverwriteKeepsMaximum(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 10)
	tc.submit(alice, 3)

	tc.Assert.Equal("3", tc.mustAllInfo(alice).Networth.String())
	// outcome tracks the maximum ever submitted, not the current records
	tc.Assert.Equal(alice.Identity, tc.outcome().Richest)
	tc.Assert.Equal("10", tc.outcome().Networth.String())

	tc.submit(bob, 7)
	tc.Assert.Equal(alice.Identity, tc.outcome().Richest)
}

func TestZeroSubmissionLeavesOutcomeUnset(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 0)
	tc.Assert.True(tc.outcome().Richest.IsUnset())
	tc.Assert.False(tc.mustAllInfo(alice).Richest)
}

func TestRejectPolicy(t *testing.T) {
	tc := newContractTest(t, contract.Reject)
	tc.submit(alice, 4)

	err := tc.execute(alice, &contract.SubmitNetWorth{Networth: types.NewAmount(9)})
	var already *contract.AlreadySubmittedError
	tc.Assert.ErrorAs(err, &already)
	tc.Assert.Equal("4", already.Networth.String())
	tc.Assert.Equal("You have already submitted your networth: 4", err.Error())
	tc.Assert.Equal(contract.Policy, contract.KindOf(err))

	tc.Assert.Equal("4", tc.mustAllInfo(alice).Networth.String())
	tc.Assert.Equal("4", tc.outcome().Networth.String())

	// other identities are unaffected
	tc.submit(bob, 9)
	tc.Assert.Equal(bob.Identity, tc.outcome().Richest)
}

func TestRejectPolicyCountsZero(t *testing.T) {
	tc := newContractTest(t, contract.Reject)
	tc.submit(alice, 0)
	err := tc.execute(alice, &contract.SubmitNetWorth{Networth: types.NewAmount(1)})
	tc.Assert.Equal(contract.Policy, contract.KindOf(err))
}

func TestViewingKeyErrorsAreUniform(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 1)

	_, not_set := tc.allInfo(alice, "k")
	tc.Assert.EqualError(not_set, "Wrong viewing key for this address or viewing key not set")
	tc.Assert.Equal(contract.Authentication, contract.KindOf(not_set))

	tc.setKey(alice, "k")
	answer, err := tc.allInfo(alice, "k")
	tc.Assert.NoError(err)
	tc.Assert.Equal("1", answer.Networth.String())

	_, wrong := tc.allInfo(alice, "wrong")
	tc.Assert.Equal(not_set.Error(), wrong.Error())
	tc.Assert.Equal(contract.Authentication, contract.KindOf(wrong))

	// a key set by someone else does not open alice's records
	tc.setKey(bob, "mine")
	_, err = tc.allInfo(alice, "mine")
	tc.Assert.ErrorIs(err, contract.ErrWrongViewingKey)

	// overwrite
	tc.setKey(alice, "k2")
	_, err = tc.allInfo(alice, "k")
	tc.Assert.ErrorIs(err, contract.ErrWrongViewingKey)
	_, err = tc.query(&contract.AmIRichest{Addr: alice.Identity.String(), Key: "k2"})
	tc.Assert.NoError(err)
}

func TestMalformedAddress(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	for _, addr := range []string{"", "alice", "cosmos1qqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqnrql8a", string([]byte(alice.Identity.String())[:10])} {
		_, err := tc.query(&contract.AmIRichest{Addr: addr, Key: "k"})
		tc.Assert.ErrorIs(err, types.ErrInvalidAddress, addr)
		tc.Assert.Equal(contract.Validation, contract.KindOf(err))
	}
}

func TestReadsAreIdempotent(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 11)
	tc.submit(bob, 12)
	tc.setKey(alice, "k")

	entries_before := tc.store.Len()
	first, err := tc.allInfo(alice, "k")
	tc.Assert.NoError(err)
	second, err := tc.allInfo(alice, "k")
	tc.Assert.NoError(err)
	tc.Assert.Equal(first, second)
	tc.Assert.Equal(entries_before, tc.store.Len())
}

func TestSetViewingKeyIsOrthogonal(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 1)
	tc.submit(bob, 2)
	tc.setKey(alice, "a")
	tc.setKey(bob, "b")

	outcome := tc.outcome()
	a, _ := tc.allInfo(alice, "a")
	b, _ := tc.allInfo(bob, "b")

	for i := 0; i < 5; i++ {
		tc.setKey(alice, "a")
		tc.setKey(bob, "b")
		tc.setKey(carol, "c")
	}
	tc.Assert.Equal(outcome, tc.outcome())
	a2, _ := tc.allInfo(alice, "a")
	b2, _ := tc.allInfo(bob, "b")
	tc.Assert.Equal(a, a2)
	tc.Assert.Equal(b, b2)
	c, err := tc.allInfo(carol, "c")
	tc.Assert.NoError(err)
	tc.Assert.True(c.Networth.IsZero())
}

func TestOutcomeIsRunningMaximum(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	accounts := make([]tests.Account, 6)
	for i := range accounts {
		accounts[i] = tests.NewAccount(uint64(10 + i))
	}
	rnd := rand.New(rand.NewSource(42))
	var max uint64
	richest := types.Unset
	for i := 0; i < 200; i++ {
		acc := accounts[rnd.Intn(len(accounts))]
		amount := uint64(rnd.Intn(1000))
		prev := tc.outcome()
		tc.submit(acc, amount)
		if amount > max {
			max, richest = amount, acc.Identity
		}
		current := tc.outcome()
		tc.Assert.Equal(types.NewAmount(max).String(), current.Networth.String())
		tc.Assert.Equal(richest, current.Richest)
		tc.Assert.True(current.Networth.Cmp(prev.Networth) >= 0)
	}
}

func TestPermitQueries(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 3)
	tc.submit(bob, 5)

	p := tc.signPermit(alice, "all", contract.PermissionAllInfo, contract.PermissionAmIRichest)
	answer, err := tc.query(&contract.WithPermit{Permit: p, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.NoError(err)
	tc.Assert.Equal(&contract.AllInfoAnswer{Richest: false, Networth: types.NewAmount(3)}, answer)

	p = tc.signPermit(bob, "richest", contract.PermissionAmIRichest)
	answer, err = tc.query(&contract.WithPermit{Permit: p, Query: &contract.AmIRichestWithPermit{}})
	tc.Assert.NoError(err)
	tc.Assert.Equal(&contract.AmIRichestAnswer{Richest: true}, answer)
}

func TestPermitMissingPermission(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	p := tc.signPermit(alice, "info-only", contract.PermissionAllInfo)

	_, err := tc.query(&contract.WithPermit{Permit: p, Query: &contract.AmIRichestWithPermit{}})
	var denied *contract.PermissionError
	tc.Assert.ErrorAs(err, &denied)
	tc.Assert.Equal(contract.PermissionAmIRichest, denied.Required)
	tc.Assert.Equal([]contract.Permission{contract.PermissionAllInfo}, denied.Granted)
	tc.Assert.Contains(err.Error(), "am_i_richest")
	tc.Assert.Equal(contract.Authorization, contract.KindOf(err))
}

func TestPermitForOtherContract(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	params := permit.Params{
		PermitName:    "elsewhere",
		AllowedTokens: []string{tests.Codec.FromLabel("other").String()},
		Permissions:   []string{string(contract.PermissionAllInfo)},
	}
	p, err := permit.Sign(alice.Key, params)
	tc.Assert.NoError(err)

	_, err = tc.query(&contract.WithPermit{Permit: p, Query: &contract.AllInfoWithPermit{}})
	var audience *permit.AudienceError
	tc.Assert.ErrorAs(err, &audience)
	tc.Assert.Equal(contract.Authentication, contract.KindOf(err))
}

func TestPermitBadSignature(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	p := tc.signPermit(alice, "p", contract.PermissionAmIRichest)
	p.Params.PermitName = "renamed"

	_, err := tc.query(&contract.WithPermit{Permit: p, Query: &contract.AmIRichestWithPermit{}})
	tc.Assert.ErrorIs(err, permit.ErrSignature)
	tc.Assert.Equal(contract.Authentication, contract.KindOf(err))
}

func TestRevokePermit(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.submit(alice, 8)
	p := tc.signPermit(alice, "phone", contract.PermissionAllInfo)
	other := tc.signPermit(alice, "laptop", contract.PermissionAllInfo)
	bobs := tc.signPermit(bob, "phone", contract.PermissionAllInfo)

	_, err := tc.query(&contract.WithPermit{Permit: p, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.NoError(err)

	// revoking is scoped to the sender's own permits
	tc.Assert.NoError(tc.execute(bob, &contract.RevokePermit{PermitName: "laptop"}))
	_, err = tc.query(&contract.WithPermit{Permit: other, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.NoError(err)

	tc.Assert.NoError(tc.execute(alice, &contract.RevokePermit{PermitName: "phone"}))
	_, err = tc.query(&contract.WithPermit{Permit: p, Query: &contract.AllInfoWithPermit{}})
	var revoked *contract.RevokedPermitError
	tc.Assert.ErrorAs(err, &revoked)
	tc.Assert.Equal(alice.Identity, revoked.Account)
	tc.Assert.Equal(contract.Authentication, contract.KindOf(err))

	_, err = tc.query(&contract.WithPermit{Permit: other, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.NoError(err)
	_, err = tc.query(&contract.WithPermit{Permit: bobs, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.NoError(err)
}

func TestPermitUnknownPermission(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	p, err := permit.Sign(alice.Key, permit.Params{
		PermitName:    "p",
		AllowedTokens: []string{contract_address.String()},
		Permissions:   []string{"balance"},
	})
	tc.Assert.NoError(err)
	_, err = tc.query(&contract.WithPermit{Permit: p, Query: &contract.AllInfoWithPermit{}})
	tc.Assert.ErrorIs(err, contract.ErrUnknownPermission)
	tc.Assert.Equal(contract.Validation, contract.KindOf(err))
}

func TestExecuteRaw(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)
	tc.Assert.NoError(tc.call(func(c *contract.Contract) error {
		return c.ExecuteRaw(alice.Identity.String(), []byte(`{"submit_net_worth":{"networth":"340282366920938463463374607431768211455"}}`))
	}))
	tc.Assert.NoError(tc.call(func(c *contract.Contract) error {
		return c.ExecuteRaw(alice.Identity.String(), []byte(`{"set_viewing_key":{"key":"k"}}`))
	}))

	var out []byte
	tc.Assert.NoError(tc.call(func(c *contract.Contract) (err error) {
		out, err = c.QueryRaw([]byte(`{"all_info":{"addr":"` + alice.Identity.String() + `","key":"k"}}`))
		return
	}))
	tc.Assert.JSONEq(`{"all_info":{"richest":true,"networth":"340282366920938463463374607431768211455"}}`, string(out))

	for _, c := range []struct {
		sender string
		msg    string
	}{
		{alice.Identity.String(), `{"submit_net_worth":{"networth":"340282366920938463463374607431768211456"}}`},
		{alice.Identity.String(), `{"submit_net_worth":{"networth":12}}`},
		{alice.Identity.String(), `{"submit_net_worth":{"networth":"1","extra":1}}`},
		{alice.Identity.String(), `{"transfer":{}}`},
		{alice.Identity.String(), `{}`},
		{"SECRET1XYZ", `{"set_viewing_key":{"key":"k"}}`},
	} {
		err := tc.call(func(contr *contract.Contract) error {
			return contr.ExecuteRaw(c.sender, []byte(c.msg))
		})
		tc.Assert.Equal(contract.Validation, contract.KindOf(err), c.msg)
	}
	tc.Assert.Equal("340282366920938463463374607431768211455", tc.outcome().Networth.String())
}

func TestIncompleteMessagesAreRejected(t *testing.T) {
	tc := newContractTest(t, contract.Overwrite)

	_, err := tc.query(&contract.WithPermit{})
	tc.Assert.ErrorIs(err, contract.ErrMalformedMessage)
	tc.Assert.Equal(contract.Validation, contract.KindOf(err))

	_, err = tc.query(nil)
	tc.Assert.Equal(contract.Validation, contract.KindOf(err))

	err = tc.execute(alice, nil)
	tc.Assert.Equal(contract.Validation, contract.KindOf(err))
}
