package tradeweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"huefolio/internal/domain"
	"huefolio/internal/session"
	"huefolio/internal/usecase"
)

type fakeSessions struct {
	m map[string]uuid.UUID
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{m: make(map[string]uuid.UUID)}
}

func (f *fakeSessions) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	sid := uuid.New().String()
	f.m[sid] = userID
	return sid, nil
}

func (f *fakeSessions) Get(ctx context.Context, sid string) (uuid.UUID, error) {
	return f.m[sid], nil
}

func (f *fakeSessions) Destroy(ctx context.Context, sid string) error {
	delete(f.m, sid)
	return nil
}

// fakeStore implements both repository interfaces in memory
type fakeStore struct {
	users    map[uuid.UUID]*domain.User
	holdings map[uuid.UUID]map[string]int64
	txs      []*domain.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[uuid.UUID]*domain.User),
		holdings: make(map[uuid.UUID]map[string]int64),
	}
}

func (f *fakeStore) Create(ctx context.Context, user *domain.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = hash
	return nil
}

func (f *fakeStore) HoldingsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Holding, error) {
	var holdings []*domain.Holding
	for symbol, shares := range f.holdings[userID] {
		holdings = append(holdings, &domain.Holding{UserID: userID, Symbol: symbol, Shares: shares})
	}
	return holdings, nil
}

func (f *fakeStore) Holding(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Holding, error) {
	shares, ok := f.holdings[userID][symbol]
	if !ok {
		return nil, domain.ErrNoHolding
	}
	return &domain.Holding{UserID: userID, Symbol: symbol, Shares: shares}, nil
}

func (f *fakeStore) TransactionsByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	for i := len(f.txs) - 1; i >= 0; i-- {
		if f.txs[i].UserID == userID {
			txs = append(txs, f.txs[i])
		}
	}
	return txs, nil
}

func (f *fakeStore) Buy(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error {
	user := f.users[userID]
	cost := price * float64(shares)
	if user.Cash < cost {
		return domain.ErrInsufficientFunds
	}
	user.Cash -= cost
	if f.holdings[userID] == nil {
		f.holdings[userID] = make(map[string]int64)
	}
	f.holdings[userID][symbol] += shares
	f.txs = append(f.txs, &domain.Transaction{
		UserID: userID, Symbol: symbol, Price: price, Shares: shares,
		Action: domain.ActionBuy, Timestamp: time.Now(),
	})
	return nil
}

func (f *fakeStore) Sell(ctx context.Context, userID uuid.UUID, symbol string, price float64, shares int64) error {
	owned, ok := f.holdings[userID][symbol]
	if !ok || owned == 0 {
		return domain.ErrNoHolding
	}
	if owned < shares {
		return domain.ErrInsufficientShares
	}
	f.users[userID].Cash += price * float64(shares)
	if owned == shares {
		delete(f.holdings[userID], symbol)
	} else {
		f.holdings[userID][symbol] = owned - shares
	}
	f.txs = append(f.txs, &domain.Transaction{
		UserID: userID, Symbol: symbol, Price: price, Shares: shares,
		Action: domain.ActionSell, Timestamp: time.Now(),
	})
	return nil
}

type fakeQuotes struct {
	prices map[string]float64
}

func (f *fakeQuotes) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	price, ok := f.prices[symbol]
	if !ok {
		return nil, domain.ErrSymbolNotFound
	}
	return &domain.Quote{Name: symbol + " Inc", Symbol: symbol, Price: price}, nil
}

func testApp(t *testing.T, prices map[string]float64) (*echo.Echo, *fakeStore, *fakeSessions) {
	t.Helper()

	templates, err := LoadTemplates()
	require.NoError(t, err)

	store := newFakeStore()
	sessions := newFakeSessions()
	trading := usecase.NewTradingService(store, store, &fakeQuotes{prices: prices})

	e := echo.New()
	SetupRoutes(e, NewHandler(templates, trading, store, sessions))
	return e, store, sessions
}

func addUser(t *testing.T, store *fakeStore, username, password string, cash float64) uuid.UUID {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, store.Create(context.Background(), &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: string(hash),
		Cash:         cash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
	return id
}

func authedForm(t *testing.T, sessions *fakeSessions, userID uuid.UUID, method, path string, form url.Values) *http.Request {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	sid, err := sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	return req
}

func TestGuardRedirectsToLogin(t *testing.T) {
	e, _, _ := testApp(t, nil)

	for _, path := range []string{"/", "/buy", "/sell", "/quote", "/history", "/account"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestBuy(t *testing.T) {
	t.Run("buy updates cash and holding and redirects home", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
		userID := addUser(t, store, "alice", "hunter2", 10000)

		form := url.Values{"symbol": {"NFLX"}, "shares": {"10"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/buy", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		user, _ := store.GetByID(context.Background(), userID)
		assert.Equal(t, 9000.0, user.Cash)
		assert.Equal(t, int64(10), store.holdings[userID]["NFLX"])
		assert.Len(t, store.txs, 1)
	})

	t.Run("invalid share counts are rejected without mutation", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
		userID := addUser(t, store, "alice", "hunter2", 10000)

		for _, shares := range []string{"abc", "2.5", "0", "-1"} {
			form := url.Values{"symbol": {"NFLX"}, "shares": {shares}}
			req := authedForm(t, sessions, userID, http.MethodPost, "/buy", form)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code, "shares=%s", shares)
			assert.Contains(t, rec.Body.String(), "Invalid number of shares")
		}

		user, _ := store.GetByID(context.Background(), userID)
		assert.Equal(t, 10000.0, user.Cash)
		assert.Empty(t, store.txs)
	})

	t.Run("unknown symbol is a 400", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{})
		userID := addUser(t, store, "alice", "hunter2", 10000)

		form := url.Values{"symbol": {"NOPE"}, "shares": {"1"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/buy", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Stock not found")
	})

	t.Run("insufficient funds is a 400", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
		userID := addUser(t, store, "alice", "hunter2", 50)

		form := url.Values{"symbol": {"NFLX"}, "shares": {"1"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/buy", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Insufficient funds")
	})
}

func TestSell(t *testing.T) {
	t.Run("selling all shares removes the holding", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 110})
		userID := addUser(t, store, "alice", "hunter2", 9000)
		store.holdings[userID] = map[string]int64{"NFLX": 10}

		form := url.Values{"symbol": {"NFLX"}, "shares": {"10"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/sell", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)

		user, _ := store.GetByID(context.Background(), userID)
		assert.Equal(t, 10100.0, user.Cash)
		_, owned := store.holdings[userID]["NFLX"]
		assert.False(t, owned)
	})

	t.Run("selling unowned stock is a 400", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
		userID := addUser(t, store, "alice", "hunter2", 10000)

		form := url.Values{"symbol": {"NFLX"}, "shares": {"1"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/sell", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "You do not own this stock")
	})

	t.Run("selling more than owned is a 400", func(t *testing.T) {
		e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
		userID := addUser(t, store, "alice", "hunter2", 10000)
		store.holdings[userID] = map[string]int64{"NFLX": 3}

		form := url.Values{"symbol": {"NFLX"}, "shares": {"4"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/sell", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "shares to sell")
		assert.Equal(t, int64(3), store.holdings[userID]["NFLX"])
	})
}

func TestQuote(t *testing.T) {
	e, store, sessions := testApp(t, map[string]float64{"NFLX": 123.45})
	userID := addUser(t, store, "alice", "hunter2", 10000)

	t.Run("renders a known quote from the query string", func(t *testing.T) {
		req := authedForm(t, sessions, userID, http.MethodGet, "/quote?symbol=NFLX", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "NFLX")
		assert.Contains(t, rec.Body.String(), "$123.45")
	})

	t.Run("unknown symbol is a 400", func(t *testing.T) {
		form := url.Values{"symbol": {"NOPE"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/quote", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Stock not found")
	})

	t.Run("no symbol renders the lookup form", func(t *testing.T) {
		req := authedForm(t, sessions, userID, http.MethodGet, "/quote", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestIndexShowsPortfolio(t *testing.T) {
	e, store, sessions := testApp(t, map[string]float64{"NFLX": 100})
	userID := addUser(t, store, "alice", "hunter2", 9000)
	store.holdings[userID] = map[string]int64{"NFLX": 10}

	req := authedForm(t, sessions, userID, http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "NFLX")
	assert.Contains(t, rec.Body.String(), "$1000.00")
	assert.Contains(t, rec.Body.String(), "$9000.00")
}

func TestAccount(t *testing.T) {
	t.Run("wrong old password is rejected", func(t *testing.T) {
		e, store, sessions := testApp(t, nil)
		userID := addUser(t, store, "alice", "hunter2", 10000)

		form := url.Values{"oldpass": {"wrong"}, "newpass": {"newpw"}, "confirmation": {"newpw"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/account", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "old password is incorrect")
	})

	t.Run("password change allows login with the new password", func(t *testing.T) {
		e, store, sessions := testApp(t, nil)
		userID := addUser(t, store, "alice", "hunter2", 10000)

		form := url.Values{"oldpass": {"hunter2"}, "newpass": {"newpw"}, "confirmation": {"newpw"}}
		req := authedForm(t, sessions, userID, http.MethodPost, "/account", form)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)

		login := url.Values{"username": {"alice"}, "password": {"newpw"}}
		req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(login.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func TestHistory(t *testing.T) {
	e, store, sessions := testApp(t, nil)
	userID := addUser(t, store, "alice", "hunter2", 10000)
	store.txs = []*domain.Transaction{
		{UserID: userID, Symbol: "NFLX", Price: 100, Shares: 10, Action: domain.ActionBuy, Timestamp: time.Now().Add(-time.Hour)},
		{UserID: userID, Symbol: "NFLX", Price: 110, Shares: 10, Action: domain.ActionSell, Timestamp: time.Now()},
	}

	req := authedForm(t, sessions, userID, http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "BUY")
	assert.Contains(t, body, "SELL")
	assert.Less(t, strings.Index(body, "SELL"), strings.Index(body, "BUY"), "most recent first")
}
