package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gem-auction/internal/auctionerrors"
	"gem-auction/internal/models"
	"gem-auction/utils"

	_ "github.com/jackc/pgx/v5/stdlib" // postgres driver "pgx"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go sqlite driver "sqlite"
)

// Supported database/sql drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS auctions (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		images        TEXT NOT NULL DEFAULT '[]',
		starting_bid  NUMERIC(14,2) NOT NULL,
		current_bid   NUMERIC(14,2) NOT NULL,
		buy_now_price NUMERIC(14,2),
		reserve_price NUMERIC(14,2),
		category      TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL,
		bid_count     INTEGER NOT NULL DEFAULT 0,
		seller_id     TEXT NOT NULL DEFAULT '',
		start_time    TEXT,
		end_time      TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bids (
		id         TEXT PRIMARY KEY,
		auction_id TEXT NOT NULL REFERENCES auctions(id),
		bidder_id  TEXT NOT NULL,
		amount     NUMERIC(14,2) NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_auction ON bids(auction_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_bidder ON bids(bidder_id)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id         TEXT PRIMARY KEY,
		auction_id TEXT NOT NULL REFERENCES auctions(id),
		author_id  TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_auction ON chat_messages(auction_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS membership_plans (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		level              INTEGER NOT NULL,
		price              NUMERIC(14,2) NOT NULL,
		monthly_item_limit INTEGER NOT NULL,
		commission_rate    NUMERIC(5,2) NOT NULL,
		features           TEXT NOT NULL DEFAULT '[]',
		description        TEXT NOT NULL DEFAULT '',
		is_active          BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS user_memberships (
		id                       TEXT PRIMARY KEY,
		user_id                  TEXT NOT NULL UNIQUE,
		plan_id                  TEXT NOT NULL REFERENCES membership_plans(id),
		status                   TEXT NOT NULL,
		current_period_start     TEXT NOT NULL,
		current_period_end       TEXT NOT NULL,
		items_posted_this_period INTEGER NOT NULL DEFAULT 0,
		created_at               TEXT NOT NULL,
		updated_at               TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id                TEXT PRIMARY KEY,
		auction_id        TEXT NOT NULL REFERENCES auctions(id),
		seller_id         TEXT NOT NULL,
		buyer_id          TEXT NOT NULL,
		item_title        TEXT NOT NULL,
		sale_amount       NUMERIC(14,2) NOT NULL,
		commission_rate   NUMERIC(5,2) NOT NULL,
		commission_amount NUMERIC(14,2) NOT NULL,
		seller_earnings   NUMERIC(14,2) NOT NULL,
		payment_status    TEXT NOT NULL,
		created_at        TEXT NOT NULL
	)`,
}

const (
	auctionColumns = `id, title, description, images, starting_bid, current_bid, buy_now_price, reserve_price,
		category, status, bid_count, seller_id, start_time, end_time, created_at, updated_at`
	bidColumns        = `id, auction_id, bidder_id, amount, created_at`
	messageColumns    = `id, auction_id, author_id, body, created_at`
	planColumns       = `id, name, level, price, monthly_item_limit, commission_rate, features, description, is_active`
	membershipColumns = `id, user_id, plan_id, status, current_period_start, current_period_end,
		items_posted_this_period, created_at, updated_at`
	openStatuses = `('active', 'live')`
)

type auctionRow struct {
	ID           string              `db:"id"`
	Title        string              `db:"title"`
	Description  string              `db:"description"`
	Images       string              `db:"images"`
	StartingBid  decimal.Decimal     `db:"starting_bid"`
	CurrentBid   decimal.Decimal     `db:"current_bid"`
	BuyNowPrice  decimal.NullDecimal `db:"buy_now_price"`
	ReservePrice decimal.NullDecimal `db:"reserve_price"`
	Category     string              `db:"category"`
	Status       string              `db:"status"`
	BidCount     int                 `db:"bid_count"`
	SellerID     string              `db:"seller_id"`
	StartTime    sql.NullString      `db:"start_time"`
	EndTime      sql.NullString      `db:"end_time"`
	CreatedAt    string              `db:"created_at"`
	UpdatedAt    string              `db:"updated_at"`
}

func auctionRowFrom(a models.AuctionSnapshot) auctionRow {
	return auctionRow{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Images:       encodeList(a.Images),
		StartingBid:  a.StartingBid,
		CurrentBid:   a.CurrentBid,
		BuyNowPrice:  a.BuyNowPrice,
		ReservePrice: a.ReservePrice,
		Category:     a.Category,
		Status:       string(a.Status),
		BidCount:     a.BidCount,
		SellerID:     a.SellerID,
		StartTime:    formatNullTime(a.StartTime),
		EndTime:      formatNullTime(a.EndTime),
		CreatedAt:    formatTime(a.CreatedAt),
		UpdatedAt:    formatTime(a.UpdatedAt),
	}
}

func (r auctionRow) model() (models.AuctionSnapshot, error) {
	a := models.AuctionSnapshot{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		StartingBid:  r.StartingBid,
		CurrentBid:   r.CurrentBid,
		BuyNowPrice:  r.BuyNowPrice,
		ReservePrice: r.ReservePrice,
		Category:     r.Category,
		Status:       models.AuctionStatus(r.Status),
		BidCount:     r.BidCount,
		SellerID:     r.SellerID,
	}
	var err error
	if a.Images, err = decodeList(r.Images); err != nil {
		return a, fmt.Errorf("auction %s: %w", r.ID, err)
	}
	if a.StartTime, err = parseNullTime(r.StartTime); err != nil {
		return a, fmt.Errorf("auction %s: %w", r.ID, err)
	}
	if a.EndTime, err = parseNullTime(r.EndTime); err != nil {
		return a, fmt.Errorf("auction %s: %w", r.ID, err)
	}
	if a.CreatedAt, err = parseTime(r.CreatedAt); err != nil {
		return a, fmt.Errorf("auction %s: %w", r.ID, err)
	}
	if a.UpdatedAt, err = parseTime(r.UpdatedAt); err != nil {
		return a, fmt.Errorf("auction %s: %w", r.ID, err)
	}
	return a, nil
}

func auctionModels(rows []auctionRow) ([]models.AuctionSnapshot, error) {
	out := make([]models.AuctionSnapshot, 0, len(rows))
	for _, row := range rows {
		a, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

type bidRow struct {
	ID        string          `db:"id"`
	AuctionID string          `db:"auction_id"`
	BidderID  string          `db:"bidder_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt string          `db:"created_at"`
}

func (r bidRow) model() (models.Bid, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return models.Bid{}, fmt.Errorf("bid %s: %w", r.ID, err)
	}
	return models.Bid{ID: r.ID, AuctionID: r.AuctionID, BidderID: r.BidderID, Amount: r.Amount, CreatedAt: created}, nil
}

type messageRow struct {
	ID        string `db:"id"`
	AuctionID string `db:"auction_id"`
	AuthorID  string `db:"author_id"`
	Body      string `db:"body"`
	CreatedAt string `db:"created_at"`
}

func (r messageRow) model() (models.ChatMessage, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return models.ChatMessage{}, fmt.Errorf("message %s: %w", r.ID, err)
	}
	return models.ChatMessage{ID: r.ID, AuctionID: r.AuctionID, AuthorID: r.AuthorID, Body: r.Body, CreatedAt: created}, nil
}

type planRow struct {
	ID               string          `db:"id"`
	Name             string          `db:"name"`
	Level            int             `db:"level"`
	Price            decimal.Decimal `db:"price"`
	MonthlyItemLimit int             `db:"monthly_item_limit"`
	CommissionRate   decimal.Decimal `db:"commission_rate"`
	Features         string          `db:"features"`
	Description      string          `db:"description"`
	IsActive         bool            `db:"is_active"`
}

func (r planRow) model() (models.MembershipPlan, error) {
	features, err := decodeList(r.Features)
	if err != nil {
		return models.MembershipPlan{}, fmt.Errorf("plan %s: %w", r.ID, err)
	}
	return models.MembershipPlan{
		ID:               r.ID,
		Name:             r.Name,
		Level:            r.Level,
		Price:            r.Price,
		MonthlyItemLimit: r.MonthlyItemLimit,
		CommissionRate:   r.CommissionRate,
		Features:         features,
		Description:      r.Description,
		IsActive:         r.IsActive,
	}, nil
}

type membershipRow struct {
	ID                    string `db:"id"`
	UserID                string `db:"user_id"`
	PlanID                string `db:"plan_id"`
	Status                string `db:"status"`
	CurrentPeriodStart    string `db:"current_period_start"`
	CurrentPeriodEnd      string `db:"current_period_end"`
	ItemsPostedThisPeriod int    `db:"items_posted_this_period"`
	CreatedAt             string `db:"created_at"`
	UpdatedAt             string `db:"updated_at"`
}

func (r membershipRow) model() (models.UserMembership, error) {
	m := models.UserMembership{
		ID:                    r.ID,
		UserID:                r.UserID,
		PlanID:                r.PlanID,
		Status:                models.MembershipStatus(r.Status),
		ItemsPostedThisPeriod: r.ItemsPostedThisPeriod,
	}
	var err error
	for _, f := range []struct {
		dst *time.Time
		src string
	}{
		{&m.CurrentPeriodStart, r.CurrentPeriodStart},
		{&m.CurrentPeriodEnd, r.CurrentPeriodEnd},
		{&m.CreatedAt, r.CreatedAt},
		{&m.UpdatedAt, r.UpdatedAt},
	} {
		if *f.dst, err = parseTime(f.src); err != nil {
			return models.UserMembership{}, fmt.Errorf("membership %s: %w", r.ID, err)
		}
	}
	return m, nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// SQLRepo implements AuctionDB on a SQL database through sqlx
type SQLRepo struct {
	db *sqlx.DB
}

// NewSQLRepo wraps an open database. Call Migrate before use.
func NewSQLRepo(db *sqlx.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

// OpenSQL opens driverName at dsn, verifies the connection and creates the schema
func OpenSQL(ctx context.Context, driverName, dsn string) (*SQLRepo, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	if driverName == DriverSQLite {
		// one connection: keeps an in-memory database alive and serializes writers
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driverName, err)
	}

	repo := NewSQLRepo(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	utils.Info("database ready", map[string]any{"driver": driverName})
	return repo, nil
}

// Migrate creates missing tables and indexes
func (r *SQLRepo) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Close releases the database
func (r *SQLRepo) Close() error {
	return r.db.Close()
}

// CreateAuction adds or replaces an auction listing
func (r *SQLRepo) CreateAuction(ctx context.Context, auction models.AuctionSnapshot) error {
	if auction.ID == "" {
		return fmt.Errorf("create auction: %w", auctionerrors.ErrValidation)
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO auctions (`+auctionColumns+`)
		VALUES (:id, :title, :description, :images, :starting_bid, :current_bid, :buy_now_price, :reserve_price,
			:category, :status, :bid_count, :seller_id, :start_time, :end_time, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title, description = excluded.description, images = excluded.images,
			starting_bid = excluded.starting_bid, current_bid = excluded.current_bid,
			buy_now_price = excluded.buy_now_price, reserve_price = excluded.reserve_price,
			category = excluded.category, status = excluded.status, bid_count = excluded.bid_count,
			seller_id = excluded.seller_id, start_time = excluded.start_time, end_time = excluded.end_time,
			updated_at = excluded.updated_at`,
		auctionRowFrom(auction))
	if err != nil {
		return fmt.Errorf("create auction %s: %w", auction.ID, err)
	}
	return nil
}

// GetAuction returns a single auction
func (r *SQLRepo) GetAuction(ctx context.Context, auctionID string) (models.AuctionSnapshot, error) {
	return getAuction(ctx, r.db, auctionID)
}

func getAuction(ctx context.Context, q queryer, auctionID string) (models.AuctionSnapshot, error) {
	var row auctionRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(`SELECT `+auctionColumns+` FROM auctions WHERE id = ?`), auctionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AuctionSnapshot{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return row.model()
}

// ListAuctions returns every auction, newest first
func (r *SQLRepo) ListAuctions(ctx context.Context) ([]models.AuctionSnapshot, error) {
	var rows []auctionRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+auctionColumns+` FROM auctions ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("list auctions: %w", err)
	}
	return auctionModels(rows)
}

// RecordBid conditionally raises the current bid and stores the bid in one transaction
func (r *SQLRepo) RecordBid(ctx context.Context, bid models.Bid) (models.AuctionSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE auctions SET current_bid = ?, bid_count = bid_count + 1, updated_at = ?
		WHERE id = ? AND status IN `+openStatuses+` AND current_bid < ?`),
		bid.Amount, formatTime(bid.CreatedAt), bid.AuctionID, bid.Amount)
	if err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, err)
	} else if n == 0 {
		return models.AuctionSnapshot{}, bidRejection(ctx, tx, bid)
	}

	row := bidRow{ID: bid.ID, AuctionID: bid.AuctionID, BidderID: bid.BidderID, Amount: bid.Amount, CreatedAt: formatTime(bid.CreatedAt)}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO bids (`+bidColumns+`)
		VALUES (:id, :auction_id, :bidder_id, :amount, :created_at)`, row); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, err)
	}

	updated, err := getAuction(ctx, tx, bid.AuctionID)
	if err != nil {
		return models.AuctionSnapshot{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("record bid: commit: %w", err)
	}
	return updated, nil
}

// bidRejection explains why the conditional update matched no row
func bidRejection(ctx context.Context, tx *sqlx.Tx, bid models.Bid) error {
	a, err := getAuction(ctx, tx, bid.AuctionID)
	if err != nil {
		return fmt.Errorf("record bid: %w", err)
	}
	if !a.Status.Biddable() {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, auctionerrors.ErrAuctionClosed)
	}
	return fmt.Errorf("record bid for auction %s: current bid is %s: %w", bid.AuctionID, a.CurrentBid, auctionerrors.ErrBidTooLow)
}

// GetBidsByAuction returns an auction's bids, newest first. limit <= 0 returns all.
func (r *SQLRepo) GetBidsByAuction(ctx context.Context, auctionID string, limit int) ([]models.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE auction_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{auctionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []bidRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	out := make([]models.Bid, 0, len(rows))
	for _, row := range rows {
		b, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// GetWinningBid returns the highest bid for an auction; the earliest wins a tie
func (r *SQLRepo) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	var row bidRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+bidColumns+` FROM bids
		WHERE auction_id = ? ORDER BY amount DESC, created_at ASC LIMIT 1`), auctionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, err)
	}
	return row.model()
}

// GetAuctionsByBidder returns all auctions a user has bid on
func (r *SQLRepo) GetAuctionsByBidder(ctx context.Context, userID string) ([]models.AuctionSnapshot, error) {
	var rows []auctionRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT `+auctionColumns+` FROM auctions
		WHERE id IN (SELECT auction_id FROM bids WHERE bidder_id = ?) ORDER BY created_at DESC, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("get auctions for user %s: %w", userID, auctionerrors.ErrUserNoBids)
	}
	return auctionModels(rows)
}

// AddMessage appends a chat line to an existing auction
func (r *SQLRepo) AddMessage(ctx context.Context, msg models.ChatMessage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("add message: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := getAuction(ctx, tx, msg.AuctionID); err != nil {
		return fmt.Errorf("add message: %w", err)
	}
	row := messageRow{ID: msg.ID, AuctionID: msg.AuctionID, AuthorID: msg.AuthorID, Body: msg.Body, CreatedAt: formatTime(msg.CreatedAt)}
	if _, err := tx.NamedExecContext(ctx, `INSERT INTO chat_messages (`+messageColumns+`)
		VALUES (:id, :auction_id, :author_id, :body, :created_at)`, row); err != nil {
		return fmt.Errorf("add message to auction %s: %w", msg.AuctionID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("add message: commit: %w", err)
	}
	return nil
}

// GetMessages returns the most recent limit messages, oldest first. limit <= 0 returns all.
func (r *SQLRepo) GetMessages(ctx context.Context, auctionID string, limit int) ([]models.ChatMessage, error) {
	var (
		rows []messageRow
		err  error
	)
	if limit > 0 {
		err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT `+messageColumns+` FROM (
			SELECT `+messageColumns+` FROM chat_messages WHERE auction_id = ?
			ORDER BY created_at DESC, id DESC LIMIT ?
		) recent ORDER BY created_at ASC, id ASC`), auctionID, limit)
	} else {
		err = r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT `+messageColumns+` FROM chat_messages
			WHERE auction_id = ? ORDER BY created_at ASC, id ASC`), auctionID)
	}
	if err != nil {
		return nil, fmt.Errorf("get messages for auction %s: %w", auctionID, err)
	}

	out := make([]models.ChatMessage, 0, len(rows))
	for _, row := range rows {
		m, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// CreatePlan adds or replaces a membership plan
func (r *SQLRepo) CreatePlan(ctx context.Context, plan models.MembershipPlan) error {
	if plan.ID == "" {
		return fmt.Errorf("create plan: %w", auctionerrors.ErrValidation)
	}
	row := planRow{
		ID:               plan.ID,
		Name:             plan.Name,
		Level:            plan.Level,
		Price:            plan.Price,
		MonthlyItemLimit: plan.MonthlyItemLimit,
		CommissionRate:   plan.CommissionRate,
		Features:         encodeList(plan.Features),
		Description:      plan.Description,
		IsActive:         plan.IsActive,
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO membership_plans (`+planColumns+`)
		VALUES (:id, :name, :level, :price, :monthly_item_limit, :commission_rate, :features, :description, :is_active)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, level = excluded.level, price = excluded.price,
			monthly_item_limit = excluded.monthly_item_limit, commission_rate = excluded.commission_rate,
			features = excluded.features, description = excluded.description, is_active = excluded.is_active`,
		row)
	if err != nil {
		return fmt.Errorf("create plan %s: %w", plan.ID, err)
	}
	return nil
}

// ListPlans returns the active plans ordered by level
func (r *SQLRepo) ListPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	var rows []planRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`SELECT `+planColumns+` FROM membership_plans
		WHERE is_active = ? ORDER BY level, id`), true); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]models.MembershipPlan, 0, len(rows))
	for _, row := range rows {
		p, err := row.model()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// GetPlan returns one plan
func (r *SQLRepo) GetPlan(ctx context.Context, planID string) (models.MembershipPlan, error) {
	var row planRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT `+planColumns+` FROM membership_plans WHERE id = ?`), planID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MembershipPlan{}, fmt.Errorf("get plan %s: %w", planID, auctionerrors.ErrPlanNotFound)
	}
	if err != nil {
		return models.MembershipPlan{}, fmt.Errorf("get plan %s: %w", planID, err)
	}
	return row.model()
}

// UpsertMembership creates or replaces the user's membership, keeping its id and creation time
func (r *SQLRepo) UpsertMembership(ctx context.Context, m models.UserMembership) (models.UserMembership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("upsert membership: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int
	err = tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(*) FROM membership_plans WHERE id = ?`), m.PlanID)
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("upsert membership for user %s: %w", m.UserID, err)
	}
	if exists == 0 {
		return models.UserMembership{}, fmt.Errorf("upsert membership for user %s: %w", m.UserID, auctionerrors.ErrPlanNotFound)
	}

	row := membershipRow{
		ID:                    m.ID,
		UserID:                m.UserID,
		PlanID:                m.PlanID,
		Status:                string(m.Status),
		CurrentPeriodStart:    formatTime(m.CurrentPeriodStart),
		CurrentPeriodEnd:      formatTime(m.CurrentPeriodEnd),
		ItemsPostedThisPeriod: m.ItemsPostedThisPeriod,
		CreatedAt:             formatTime(m.CreatedAt),
		UpdatedAt:             formatTime(m.UpdatedAt),
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO user_memberships (`+membershipColumns+`)
		VALUES (:id, :user_id, :plan_id, :status, :current_period_start, :current_period_end,
			:items_posted_this_period, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			plan_id = excluded.plan_id, status = excluded.status,
			current_period_start = excluded.current_period_start, current_period_end = excluded.current_period_end,
			items_posted_this_period = excluded.items_posted_this_period, updated_at = excluded.updated_at`,
		row)
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("upsert membership for user %s: %w", m.UserID, err)
	}

	stored, err := getMembership(ctx, tx, m.UserID)
	if err != nil {
		return models.UserMembership{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.UserMembership{}, fmt.Errorf("upsert membership: commit: %w", err)
	}
	return stored, nil
}

// GetMembership returns the user's membership
func (r *SQLRepo) GetMembership(ctx context.Context, userID string) (models.UserMembership, error) {
	return getMembership(ctx, r.db, userID)
}

func getMembership(ctx context.Context, q queryer, userID string) (models.UserMembership, error) {
	var row membershipRow
	err := sqlx.GetContext(ctx, q, &row, q.Rebind(`SELECT `+membershipColumns+` FROM user_memberships WHERE user_id = ?`), userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserMembership{}, fmt.Errorf("get membership for user %s: %w", userID, auctionerrors.ErrMembershipNotFound)
	}
	if err != nil {
		return models.UserMembership{}, fmt.Errorf("get membership for user %s: %w", userID, err)
	}
	return row.model()
}

// RecordSale marks a buy-now auction sold and stores the sale in one transaction
func (r *SQLRepo) RecordSale(ctx context.Context, sale models.Sale) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record sale: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE auctions SET status = ?, updated_at = ?
		WHERE id = ? AND status IN `+openStatuses+` AND buy_now_price IS NOT NULL`),
		string(models.AuctionStatusSold), formatTime(time.Now()), sale.AuctionID)
	if err != nil {
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, err)
	} else if n == 0 {
		if _, err := getAuction(ctx, tx, sale.AuctionID); err != nil {
			return fmt.Errorf("record sale: %w", err)
		}
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, auctionerrors.ErrNotForSale)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO sales (id, auction_id, seller_id, buyer_id, item_title,
		sale_amount, commission_rate, commission_amount, seller_earnings, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		sale.ID, sale.AuctionID, sale.SellerID, sale.BuyerID, sale.ItemTitle,
		sale.SaleAmount, sale.CommissionRate, sale.CommissionAmount, sale.SellerEarnings,
		sale.PaymentStatus, formatTime(sale.CreatedAt))
	if err != nil {
		return fmt.Errorf("record sale for auction %s: %w", sale.AuctionID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record sale: commit: %w", err)
	}
	return nil
}

// DriverFor maps a STORE setting to its database/sql driver name
func DriverFor(store string) (string, error) {
	switch strings.ToLower(store) {
	case "sqlite":
		return DriverSQLite, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	}
	return "", fmt.Errorf("unsupported store %q", store)
}
