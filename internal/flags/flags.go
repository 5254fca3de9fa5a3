// Package flags applies rule-based compliance flags to normalized
// transactions.
package flags

import (
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/insightdelivered/bank-statement-extractor/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultEntities is the default watch-list of names.
var DefaultEntities = []string{"guddu", "prabhat", "arif", "coal india"}

var (
	DefaultWithdrawalThreshold = decimal.NewFromInt(10000)
	DefaultDepositThreshold    = decimal.NewFromInt(50000)
)

var (
	demandDraftPattern = regexp.MustCompile(`(?i)\bDD\b`)
	rtgsMarker         = "rtgs"
)

// Config configures an Engine. Zero values fall back to the defaults.
type Config struct {
	WithdrawalThreshold decimal.Decimal
	DepositThreshold    decimal.Decimal
	Entities            []string
}

// Engine flags large DD withdrawals, large RTGS deposits and descriptions
// that name a watched entity.
//
// Entity candidates are found in one pass with an Aho-Corasick matcher and
// then confirmed as whole words.
type Engine struct {
	withdrawalThreshold decimal.Decimal
	depositThreshold    decimal.Decimal

	entities []string
	words    []*regexp.Regexp // whole-word pattern per entity, same order
	matcher  *ahocorasick.Matcher
	mu       sync.Mutex // the matcher is not safe for concurrent use
}

// New builds an Engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{
		withdrawalThreshold: cfg.WithdrawalThreshold,
		depositThreshold:    cfg.DepositThreshold,
	}
	if e.withdrawalThreshold.IsZero() {
		e.withdrawalThreshold = DefaultWithdrawalThreshold
	}
	if e.depositThreshold.IsZero() {
		e.depositThreshold = DefaultDepositThreshold
	}

	entities := cfg.Entities
	if entities == nil {
		entities = DefaultEntities
	}
	for _, name := range entities {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		e.entities = append(e.entities, name)
		e.words = append(e.words, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(name)+`\b`))
	}
	if len(e.entities) > 0 {
		e.matcher = ahocorasick.NewStringMatcher(e.entities)
	}
	return e
}

// NewDefault returns an Engine with the default thresholds and watch-list.
func NewDefault() *Engine {
	return New(Config{})
}

// WithdrawalThreshold returns the amount a DD withdrawal must exceed.
func (e *Engine) WithdrawalThreshold() decimal.Decimal { return e.withdrawalThreshold }

// DepositThreshold returns the amount an RTGS deposit must exceed.
func (e *Engine) DepositThreshold() decimal.Decimal { return e.depositThreshold }

// Entities returns the normalized watch-list.
func (e *Engine) Entities() []string {
	return append([]string{}, e.entities...)
}

// Apply returns copies of txns with flags set. Only the flags differ from
// the input.
func (e *Engine) Apply(txns []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txns))
	for i, txn := range txns {
		txn.Flags = e.Evaluate(txn)
		out[i] = txn
	}
	return out
}

// Evaluate computes the flags for one transaction. A null amount counts as
// zero.
func (e *Engine) Evaluate(txn models.Transaction) models.Flags {
	return models.Flags{
		LargeWithdrawal: amountOrZero(txn.Withdrawal).GreaterThan(e.withdrawalThreshold) &&
			demandDraftPattern.MatchString(txn.Description),
		LargeDeposit: amountOrZero(txn.Deposit).GreaterThan(e.depositThreshold) &&
			strings.Contains(strings.ToLower(txn.Description), rtgsMarker),
		EntityMatch: e.matchesEntity(txn.Description),
	}
}

// MatchedEntities returns the watch-list entries named in description, in
// watch-list order.
func (e *Engine) MatchedEntities(description string) []string {
	if e.matcher == nil || description == "" {
		return nil
	}

	e.mu.Lock()
	hits := e.matcher.Match([]byte(strings.ToLower(description)))
	e.mu.Unlock()

	var names []string
	for i := range e.entities {
		if !slices.Contains(hits, i) {
			continue
		}
		if e.words[i].MatchString(description) {
			names = append(names, e.entities[i])
		}
	}
	return names
}

func (e *Engine) matchesEntity(description string) bool {
	return len(e.MatchedEntities(description)) > 0
}

// Summary counts how many transactions carry each flag.
type Summary struct {
	LargeWithdrawals int `json:"largeWithdrawals"`
	LargeDeposits    int `json:"largeDeposits"`
	EntityMatches    int `json:"entityMatches"`
}

// Summarize counts the flags set on txns.
func Summarize(txns []models.Transaction) Summary {
	var s Summary
	for _, txn := range txns {
		if txn.Flags.LargeWithdrawal {
			s.LargeWithdrawals++
		}
		if txn.Flags.LargeDeposit {
			s.LargeDeposits++
		}
		if txn.Flags.EntityMatch {
			s.EntityMatches++
		}
	}
	return s
}

func amountOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
