// Package permit implements query permits: permission lists signed off-chain by an account
// key and bound to the contracts they may be presented to.
package permit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const PubKeySecp256k1Type = "tendermint/PubKeySecp256k1"

const queryPermitMsgType = "query_permit"

type Permit struct {
	Params    Params    `json:"params"`
	Signature Signature `json:"signature"`
}

type Params struct {
	PermitName    string   `json:"permit_name"`
	AllowedTokens []string `json:"allowed_tokens"`
	ChainID       string   `json:"chain_id"`
	Permissions   []string `json:"permissions"`
}

type Signature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature []byte `json:"signature"`
}

type PubKey struct {
	Type  string `json:"type"`
	Value []byte `json:"value"`
}

// SignBytes is the amino-JSON StdSignDoc a wallet signs for a permit. Fields are declared in
// lexicographic order so encoding/json already produces the sorted form.
func SignBytes(params Params) []byte {
	type coin struct {
		Amount string `json:"amount"`
		Denom  string `json:"denom"`
	}
	type fee struct {
		Amount []coin `json:"amount"`
		Gas    string `json:"gas"`
	}
	type msgValue struct {
		AllowedTokens []string `json:"allowed_tokens"`
		Permissions   []string `json:"permissions"`
		PermitName    string   `json:"permit_name"`
	}
	type msg struct {
		Type  string   `json:"type"`
		Value msgValue `json:"value"`
	}
	type signDoc struct {
		AccountNumber string `json:"account_number"`
		ChainID       string `json:"chain_id"`
		Fee           fee    `json:"fee"`
		Memo          string `json:"memo"`
		Msgs          []msg  `json:"msgs"`
		Sequence      string `json:"sequence"`
	}
	doc := signDoc{
		AccountNumber: "0",
		ChainID:       params.ChainID,
		Fee:           fee{Amount: []coin{{"0", "uscrt"}}, Gas: "1"},
		Msgs: []msg{{
			Type: queryPermitMsgType,
			Value: msgValue{
				AllowedTokens: nonNil(params.AllowedTokens),
				Permissions:   nonNil(params.Permissions),
				PermitName:    params.PermitName,
			},
		}},
		Sequence: "0",
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		panic(err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (self *Params) AllowsToken(token string) bool {
	for _, t := range self.AllowedTokens {
		if t == token {
			return true
		}
	}
	return false
}

func Parse(raw []byte) (ret Permit, err error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&ret); err != nil {
		return ret, fmt.Errorf("malformed permit: %w", err)
	}
	return
}

type AudienceError struct {
	Token   string
	Allowed []string
}

func (self *AudienceError) Error() string {
	return fmt.Sprintf("Permit doesn't apply to token %q, allowed tokens: [%s]", self.Token, strings.Join(self.Allowed, ", "))
}
