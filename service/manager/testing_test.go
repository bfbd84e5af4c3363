package manager

import (
	"context"
	"sort"

	"curvance/core"
	accountservice "curvance/service/account"
	tokenservice "curvance/service/token"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type fakeTokenStore struct {
	tokens map[string]*core.MarketToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*core.MarketToken)}
}

func (s *fakeTokenStore) Save(ctx context.Context, token *core.MarketToken) error {
	if token.ID == 0 {
		token.ID = uint64(len(s.tokens) + 1)
	}
	clone := *token
	s.tokens[token.Address] = &clone
	return nil
}

func (s *fakeTokenStore) Find(ctx context.Context, address string) (*core.MarketToken, error) {
	if token, ok := s.tokens[address]; ok {
		clone := *token
		return &clone, nil
	}
	return &core.MarketToken{}, nil
}

func (s *fakeTokenStore) All(ctx context.Context) ([]*core.MarketToken, error) {
	addresses := make([]string, 0, len(s.tokens))
	for address := range s.tokens {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	tokens := make([]*core.MarketToken, 0, len(s.tokens))
	for _, address := range addresses {
		clone := *s.tokens[address]
		tokens = append(tokens, &clone)
	}
	return tokens, nil
}

func (s *fakeTokenStore) AllAsMap(ctx context.Context) (map[string]*core.MarketToken, error) {
	m := make(map[string]*core.MarketToken, len(s.tokens))
	for address, token := range s.tokens {
		clone := *token
		m[address] = &clone
	}
	return m, nil
}

func (s *fakeTokenStore) Update(ctx context.Context, tx *db.DB, token *core.MarketToken, version int64) error {
	current, ok := s.tokens[token.Address]
	if !ok || current.Version != token.Version {
		return db.ErrOptimisticLock
	}

	clone := *token
	clone.Version = version
	s.tokens[token.Address] = &clone
	token.Version = version
	return nil
}

type fakePositionStore struct {
	positions []*core.Position
}

func (s *fakePositionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	clone := *position
	clone.ID = uint64(len(s.positions) + 1)
	if clone.InterestIndex.IsZero() {
		clone.InterestIndex = decimal.New(1, 0)
	}
	s.positions = append(s.positions, &clone)
	return nil
}

func (s *fakePositionStore) Find(ctx context.Context, account, tokenAddress string) (*core.Position, error) {
	for _, p := range s.positions {
		if p.Account == account && p.TokenAddress == tokenAddress {
			clone := *p
			return &clone, nil
		}
	}
	return &core.Position{Account: account, TokenAddress: tokenAddress}, nil
}

func (s *fakePositionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var out []*core.Position
	for _, p := range s.positions {
		if p.Account == account {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakePositionStore) FindByToken(ctx context.Context, tokenAddress string) ([]*core.Position, error) {
	var out []*core.Position
	for _, p := range s.positions {
		if p.TokenAddress == tokenAddress {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (s *fakePositionStore) Accounts(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.positions {
		if p.Principal.IsPositive() && !seen[p.Account] {
			seen[p.Account] = true
			out = append(out, p.Account)
		}
	}
	return out, nil
}

func (s *fakePositionStore) SumCollateral(ctx context.Context, tokenAddress string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range s.positions {
		if p.TokenAddress == tokenAddress {
			sum = sum.Add(p.CollateralPosted)
		}
	}
	return sum, nil
}

func (s *fakePositionStore) Update(ctx context.Context, tx *db.DB, position *core.Position, version int64) error {
	for idx, p := range s.positions {
		if p.Account == position.Account && p.TokenAddress == position.TokenAddress {
			if p.Version != position.Version {
				return db.ErrOptimisticLock
			}
			clone := *position
			clone.Version = version
			s.positions[idx] = &clone
			position.Version = version
			return nil
		}
	}
	return db.ErrOptimisticLock
}

type fakeAccountStore struct {
	accounts    map[string]*core.Account
	memberships []*core.Membership
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]*core.Account)}
}

func (s *fakeAccountStore) FindOrCreate(ctx context.Context, address string) (*core.Account, error) {
	if account, ok := s.accounts[address]; ok {
		clone := *account
		return &clone, nil
	}

	account := &core.Account{
		ID:      uint64(len(s.accounts) + 1),
		Address: address,
	}
	s.accounts[address] = account
	clone := *account
	return &clone, nil
}

func (s *fakeAccountStore) Find(ctx context.Context, address string) (*core.Account, error) {
	if account, ok := s.accounts[address]; ok {
		clone := *account
		return &clone, nil
	}
	return &core.Account{Address: address}, nil
}

func (s *fakeAccountStore) Update(ctx context.Context, tx *db.DB, account *core.Account, version int64) error {
	current, ok := s.accounts[account.Address]
	if !ok || current.Version != account.Version {
		return db.ErrOptimisticLock
	}

	clone := *account
	clone.Version = version
	s.accounts[account.Address] = &clone
	account.Version = version
	return nil
}

func (s *fakeAccountStore) EnterMarket(ctx context.Context, address, tokenAddress string) error {
	for _, m := range s.memberships {
		if m.Account == address && m.TokenAddress == tokenAddress {
			return nil
		}
	}

	s.memberships = append(s.memberships, &core.Membership{
		ID:           uint64(len(s.memberships) + 1),
		Account:      address,
		TokenAddress: tokenAddress,
	})
	return nil
}

func (s *fakeAccountStore) ExitMarket(ctx context.Context, address, tokenAddress string) error {
	out := s.memberships[:0]
	for _, m := range s.memberships {
		if m.Account != address || m.TokenAddress != tokenAddress {
			out = append(out, m)
		}
	}
	s.memberships = out
	return nil
}

func (s *fakeAccountStore) AssetsEntered(ctx context.Context, address string) ([]string, error) {
	var entered []string
	for _, m := range s.memberships {
		if m.Account == address {
			entered = append(entered, m.TokenAddress)
		}
	}
	return entered, nil
}

func (s *fakeAccountStore) IsEntered(ctx context.Context, address, tokenAddress string) (bool, error) {
	for _, m := range s.memberships {
		if m.Account == address && m.TokenAddress == tokenAddress {
			return true, nil
		}
	}
	return false, nil
}

type fakeEventStore struct {
	events []*core.Event
}

func (s *fakeEventStore) Create(ctx context.Context, tx *db.DB, event *core.Event) error {
	clone := *event
	clone.ID = uint64(len(s.events) + 1)
	s.events = append(s.events, &clone)
	return nil
}

func (s *fakeEventStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Event, error) {
	var out []*core.Event
	for _, e := range s.events {
		if e.ID > fromID && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) FindByType(ctx context.Context, eventType string, limit int) ([]*core.Event, error) {
	var out []*core.Event
	for _, e := range s.events {
		if e.Type == eventType && len(out) < limit {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) typeCount(eventType string) int {
	n := 0
	for _, e := range s.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// fakePropertyStore only the methods the manager touches are implemented;
// reads always answer the zero value
type fakePropertyStore struct {
	property.Store
	values map[string]interface{}
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{values: make(map[string]interface{})}
}

func (s *fakePropertyStore) Get(ctx context.Context, key string) (property.Value, error) {
	var v property.Value
	return v, nil
}

func (s *fakePropertyStore) Save(ctx context.Context, key string, value interface{}) error {
	s.values[key] = value
	return nil
}

type fakeOracle struct {
	prices map[string]core.PriceData
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{prices: make(map[string]core.PriceData)}
}

func (o *fakeOracle) set(assetID, price string) {
	p, _ := decimal.NewFromString(price)
	o.prices[assetID] = core.PriceData{Price: p, Code: core.PriceCodeOK}
}

func (o *fakeOracle) GetPrice(ctx context.Context, assetID string, inUSD, preferLower bool) core.PriceData {
	if data, ok := o.prices[assetID]; ok {
		return data
	}
	return core.PriceData{Code: core.PriceCodeBad}
}

type fakeGauge struct {
	signals int
}

func (g *fakeGauge) PositionChanged(ctx context.Context, tokenAddress, account string, hasPosition bool) error {
	g.signals++
	return nil
}

// testEnv wires a manager around in-memory stores and a scripted oracle
type testEnv struct {
	system        *core.System
	tokenStore    *fakeTokenStore
	positionStore *fakePositionStore
	accountStore  *fakeAccountStore
	eventStore    *fakeEventStore
	propertyStore *fakePropertyStore
	oracle        *fakeOracle
	gauge         *fakeGauge
	tokenSrv      core.IMarketTokenService
	accountSrv    core.IAccountService
	manager       core.IMarketManager
}

func newTestEnv() *testEnv {
	env := &testEnv{
		system: &core.System{
			Admins:    []string{"admin"},
			ManagerID: "manager-1",
		},
		tokenStore:    newFakeTokenStore(),
		positionStore: &fakePositionStore{},
		accountStore:  newFakeAccountStore(),
		eventStore:    &fakeEventStore{},
		propertyStore: newFakePropertyStore(),
		oracle:        newFakeOracle(),
		gauge:         &fakeGauge{},
	}

	env.tokenSrv = tokenservice.New()
	env.accountSrv = accountservice.New(env.tokenStore, env.positionStore, env.accountStore, env.tokenSrv, env.oracle)
	env.manager = New(env.system, nil, env.propertyStore, env.tokenStore, env.positionStore, env.accountStore, env.eventStore, env.tokenSrv, env.accountSrv, env.oracle, env.gauge)

	return env
}

// addCToken a listed collateral token with a workable risk record
func (env *testEnv) addCToken(address, underlying string) *core.MarketToken {
	token := &core.MarketToken{
		Address:                address,
		Symbol:                 "C" + address,
		Underlying:             underlying,
		ManagerID:              env.system.ManagerID,
		IsCToken:               true,
		Listed:                 true,
		InitExchangeRate:       decimal.New(1, 0),
		BorrowIndex:            decimal.New(1, 0),
		CollateralizationRatio: mustDecimal("0.8"),
		CollReqSoft:            mustDecimal("0.2"),
		CollReqHard:            mustDecimal("0.1"),
		LiqIncentiveSoft:       mustDecimal("0.05"),
		LiqIncentiveHard:       mustDecimal("0.15"),
		LiqFee:                 mustDecimal("0.02"),
	}
	_ = env.tokenStore.Save(context.Background(), token)
	return token
}

// addDToken a listed debt token
func (env *testEnv) addDToken(address, underlying string) *core.MarketToken {
	token := &core.MarketToken{
		Address:          address,
		Symbol:           "D" + address,
		Underlying:       underlying,
		ManagerID:        env.system.ManagerID,
		IsCToken:         false,
		Listed:           true,
		InitExchangeRate: decimal.New(1, 0),
		BorrowIndex:      decimal.New(1, 0),
		BaseCFactor:      mustDecimal("0.1"),
		CFactorCurve:     mustDecimal("0.9"),
	}
	_ = env.tokenStore.Save(context.Background(), token)
	return token
}

func (env *testEnv) postCollateral(account, tokenAddress string, shares, posted string) {
	_ = env.positionStore.Save(context.Background(), nil, &core.Position{
		Account:          account,
		TokenAddress:     tokenAddress,
		Shares:           mustDecimal(shares),
		CollateralPosted: mustDecimal(posted),
		InterestIndex:    decimal.New(1, 0),
	})
	_ = env.accountStore.EnterMarket(context.Background(), account, tokenAddress)
}

func (env *testEnv) borrow(account, tokenAddress string, principal string) {
	_ = env.positionStore.Save(context.Background(), nil, &core.Position{
		Account:       account,
		TokenAddress:  tokenAddress,
		Principal:     mustDecimal(principal),
		InterestIndex: decimal.New(1, 0),
	})
	_ = env.accountStore.EnterMarket(context.Background(), account, tokenAddress)

	token, _ := env.tokenStore.Find(context.Background(), tokenAddress)
	if token.ID != 0 {
		token.TotalBorrows = token.TotalBorrows.Add(mustDecimal(principal))
		_ = env.tokenStore.Update(context.Background(), nil, token, token.Version+1)
	}
}

func mustDecimal(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}
