package telegram

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"dexkeeper/internal/audit"
	"dexkeeper/internal/console"
	"dexkeeper/internal/settings"
	"dexkeeper/internal/users"
)

type fakeConsoleAPI struct {
	texts   []string
	menus   []string
	edits   []string
	deleted []int
	answers []string
	msgID   int
}

func (f *fakeConsoleAPI) SendText(chatID int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeConsoleAPI) SendMenu(chatID int64, text string, buttons [][]console.Button) (int, error) {
	f.menus = append(f.menus, text)
	f.msgID++
	return f.msgID, nil
}

func (f *fakeConsoleAPI) EditMenu(chatID int64, messageID int, text string, buttons [][]console.Button) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeConsoleAPI) DeleteMessage(chatID int64, messageID int) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeConsoleAPI) AnswerCallback(callbackID, text string, alert bool) error {
	f.answers = append(f.answers, text)
	return nil
}

type driverFixture struct {
	driver   *ConsoleDriver
	api      *fakeConsoleAPI
	settings settings.Store
	dbPath   string
}

func newDriverFixture(t *testing.T) *driverFixture {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := testLogger()

	st, err := settings.NewSQLiteStore(dbPath, logger)
	if err != nil {
		t.Fatalf("settings store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	log, err := audit.NewSQLiteLog(dbPath)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	t.Cleanup(func() { log.Close() })

	us, err := users.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("user store: %v", err)
	}
	t.Cleanup(func() { us.Close() })

	api := &fakeConsoleAPI{}
	guard := console.NewGuard(42, st)
	sessions := console.NewSessions(30 * time.Minute)
	executor := console.NewExecutor(st, log, us, &fakeTransport{}, &fakeDeferrer{}, time.Millisecond, logger)
	driver := NewConsoleDriver(guard, sessions, executor, api, logger)

	return &driverFixture{driver: driver, api: api, settings: st, dbPath: dbPath}
}

// fakeTransport satisfies console.Transport for driver tests.
type fakeTransport struct{}

func (fakeTransport) SendText(int64, string) error                  { return nil }
func (fakeTransport) SendPoll(int64, string, []string) error        { return nil }
func (fakeTransport) CreateTopic(int64, string) error               { return nil }
func (fakeTransport) SendDocument(int64, string, []byte, string) error { return nil }
func (fakeTransport) BanChatMember(int64, int64) error              { return nil }
func (fakeTransport) UnbanChatMember(int64, int64) error            { return nil }

type fakeDeferrer struct{}

func (fakeDeferrer) After(time.Duration, func()) {}

func TestUnprivilegedActorIsRefused(t *testing.T) {
	fx := newDriverFixture(t)
	ctx := context.Background()

	fx.driver.HandleOpen(ctx, 99, -100)

	if len(fx.api.menus) != 0 {
		t.Errorf("menus = %v, want none for denied actor", fx.api.menus)
	}
	if len(fx.api.texts) != 1 || fx.api.texts[0] != accessDenied {
		t.Errorf("texts = %v, want single refusal", fx.api.texts)
	}
	// No settings mutation, no audit entry.
	if list := fx.settings.IDList(settings.KeyBlacklist); len(list) != 0 {
		t.Errorf("blacklist mutated: %v", list)
	}
	if n := countAudit(t, fx.dbPath); n != 0 {
		t.Errorf("audit entries = %d, want 0", n)
	}
}

func TestUnprivilegedInputIsDropped(t *testing.T) {
	fx := newDriverFixture(t)
	ctx := context.Background()

	if fx.driver.WantsInput(99) {
		t.Error("denied actor must never be mid-wizard")
	}
	fx.driver.HandleInput(ctx, 99, -100, "123")
	if len(fx.api.texts)+len(fx.api.menus) != 0 {
		t.Error("denied input produced output")
	}
}

func TestOperatorBanFlowEndToEnd(t *testing.T) {
	fx := newDriverFixture(t)
	ctx := context.Background()

	fx.driver.HandleOpen(ctx, 42, -100)
	if len(fx.api.menus) != 1 {
		t.Fatalf("menus = %v, want root menu", fx.api.menus)
	}

	// Navigate and start the ban wizard via callbacks.
	fx.driver.HandleCallback(ctx, "cb1", 42, -100, 1, console.PayloadMenuPrefix+console.MenuUsers)
	fx.driver.HandleCallback(ctx, "cb2", 42, -100, 1, console.PayloadBanStart)

	if !fx.driver.WantsInput(42) {
		t.Fatal("driver should want wizard input")
	}

	fx.driver.HandleInput(ctx, 42, -100, "777")

	if list := fx.settings.IDList(settings.KeyBlacklist); len(list) != 1 || list[0] != 777 {
		t.Errorf("blacklist = %v, want [777]", list)
	}
	if n := countAudit(t, fx.dbPath); n != 1 {
		t.Errorf("audit entries = %d, want 1", n)
	}
	// Ban notice plus redrawn users menu.
	if len(fx.api.texts) == 0 {
		t.Error("operator got no ban notice")
	}
}

func TestInvalidInputRepromptsWithoutMutation(t *testing.T) {
	fx := newDriverFixture(t)
	ctx := context.Background()

	fx.driver.HandleOpen(ctx, 42, -100)
	fx.driver.HandleCallback(ctx, "cb1", 42, -100, 1, console.PayloadBanStart)
	fx.driver.HandleInput(ctx, 42, -100, "garbage")

	if !fx.driver.WantsInput(42) {
		t.Error("wizard should still await input after invalid id")
	}
	if list := fx.settings.IDList(settings.KeyBlacklist); len(list) != 0 {
		t.Errorf("blacklist mutated by invalid input: %v", list)
	}
}

func TestCloseDeletesConsoleMessage(t *testing.T) {
	fx := newDriverFixture(t)
	ctx := context.Background()

	fx.driver.HandleOpen(ctx, 42, -100)
	fx.driver.HandleCallback(ctx, "cb1", 42, -100, 55, console.PayloadClose)

	if len(fx.api.deleted) != 1 || fx.api.deleted[0] != 55 {
		t.Errorf("deleted = %v, want console message 55", fx.api.deleted)
	}
}

func countAudit(t *testing.T, dbPath string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		t.Fatalf("count audit: %v", err)
	}
	return n
}
