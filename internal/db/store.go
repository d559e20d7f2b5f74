package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resolvedesk/backend/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// EnsureSchema creates the tables if they do not exist yet. Safe to run on
// every startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			avatar TEXT,
			engineer_level TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS complaints (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL REFERENCES users(id),
			customer_name TEXT NOT NULL,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			attachments JSONB,
			submitted_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL,
			priority TEXT,
			assigned_to TEXT,
			assigned_to_name TEXT,
			current_handler_level TEXT,
			escalation_target_level TEXT,
			resolution_timeline TIMESTAMPTZ,
			resolved_at TIMESTAMPTZ,
			resolution_details TEXT,
			internal_notes JSONB,
			customer_feedback JSONB
		);

		CREATE INDEX IF NOT EXISTS complaints_customer_idx ON complaints (customer_id);
		CREATE INDEX IF NOT EXISTS complaints_assigned_idx ON complaints (assigned_to);
		CREATE INDEX IF NOT EXISTS complaints_status_idx ON complaints (status);
	`)
	return err
}

const userColumns = `id, name, email, password_hash, role, avatar, engineer_level, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var avatar *string
	var level *string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &avatar, &level, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return models.User{}, err
	}
	if avatar != nil {
		u.Avatar = *avatar
	}
	if level != nil {
		l := models.EngineerLevel(*level)
		u.EngineerLevel = &l
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	var level *string
	if u.EngineerLevel != nil {
		l := string(*u.EngineerLevel)
		level = &l
	}
	var avatar *string
	if u.Avatar != "" {
		avatar = &u.Avatar
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, avatar, engineer_level, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, avatar, level, u.CreatedAt, u.UpdatedAt)
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	u, err := scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	u, err := scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context, role string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		args = append(args, role)
		query += ` WHERE role = $1`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const complaintColumns = `id, customer_id, customer_name, category, description, attachments,
	submitted_at, updated_at, status, priority, assigned_to, assigned_to_name,
	current_handler_level, escalation_target_level, resolution_timeline,
	resolved_at, resolution_details, internal_notes, customer_feedback`

func scanComplaint(row pgx.Row) (models.Complaint, error) {
	var (
		c           models.Complaint
		attachments []byte
		priority    *string
		handler     *string
		target      *string
		notes       []byte
		feedback    []byte
	)
	if err := row.Scan(
		&c.ID, &c.CustomerID, &c.CustomerName, &c.Category, &c.Description, &attachments,
		&c.SubmittedAt, &c.UpdatedAt, &c.Status, &priority, &c.AssignedTo, &c.AssignedToName,
		&handler, &target, &c.ResolutionTimeline,
		&c.ResolvedAt, &c.ResolutionDetails, &notes, &feedback,
	); err != nil {
		return models.Complaint{}, err
	}
	if priority != nil {
		c.Priority = models.ComplaintPriority(*priority)
	}
	if handler != nil {
		l := models.EngineerLevel(*handler)
		c.CurrentHandlerLevel = &l
	}
	if target != nil {
		l := models.EngineerLevel(*target)
		c.EscalationTargetLevel = &l
	}
	if len(attachments) > 0 {
		if err := json.Unmarshal(attachments, &c.Attachments); err != nil {
			return models.Complaint{}, fmt.Errorf("decode attachments: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &c.InternalNotes); err != nil {
			return models.Complaint{}, fmt.Errorf("decode internal notes: %w", err)
		}
	}
	if len(feedback) > 0 {
		var fb models.CustomerFeedback
		if err := json.Unmarshal(feedback, &fb); err != nil {
			return models.Complaint{}, fmt.Errorf("decode feedback: %w", err)
		}
		c.Feedback = &fb
	}
	return c, nil
}

func complaintArgs(c models.Complaint) ([]any, error) {
	var attachments, notes, feedback []byte
	var err error
	if len(c.Attachments) > 0 {
		if attachments, err = json.Marshal(c.Attachments); err != nil {
			return nil, err
		}
	}
	if len(c.InternalNotes) > 0 {
		if notes, err = json.Marshal(c.InternalNotes); err != nil {
			return nil, err
		}
	}
	if c.Feedback != nil {
		if feedback, err = json.Marshal(c.Feedback); err != nil {
			return nil, err
		}
	}

	var priority *string
	if c.Priority != "" {
		p := string(c.Priority)
		priority = &p
	}
	var handler, target *string
	if c.CurrentHandlerLevel != nil {
		l := string(*c.CurrentHandlerLevel)
		handler = &l
	}
	if c.EscalationTargetLevel != nil {
		l := string(*c.EscalationTargetLevel)
		target = &l
	}

	return []any{
		c.ID, c.CustomerID, c.CustomerName, c.Category, c.Description, attachments,
		c.SubmittedAt, c.UpdatedAt, c.Status, priority, c.AssignedTo, c.AssignedToName,
		handler, target, c.ResolutionTimeline,
		c.ResolvedAt, c.ResolutionDetails, notes, feedback,
	}, nil
}

func (s *Store) CreateComplaint(ctx context.Context, c models.Complaint) error {
	args, err := complaintArgs(c)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO complaints (`+complaintColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`, args...)
	return err
}

func (s *Store) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	c, err := scanComplaint(s.Pool.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Complaint{}, ErrNotFound
	}
	return c, err
}

// ComplaintFilter narrows ListComplaints. Zero values match everything.
type ComplaintFilter struct {
	CustomerID string
	AssignedTo string
	Status     string
	Category   string
	Q          string
	Limit      int
	Offset     int
}

func (s *Store) ListComplaints(ctx context.Context, f ComplaintFilter) ([]models.Complaint, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	var wheres []string
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		wheres = append(wheres, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		wheres = append(wheres, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		wheres = append(wheres, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		wheres = append(wheres, fmt.Sprintf("(description ILIKE $%d OR id ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY updated_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const updateComplaintSQL = `
	UPDATE complaints SET
		customer_id = $2, customer_name = $3, category = $4, description = $5,
		attachments = $6, submitted_at = $7, updated_at = $8, status = $9,
		priority = $10, assigned_to = $11, assigned_to_name = $12,
		current_handler_level = $13, escalation_target_level = $14,
		resolution_timeline = $15, resolved_at = $16, resolution_details = $17,
		internal_notes = $18, customer_feedback = $19
	WHERE id = $1`

// UpdateComplaint is the single write path for existing complaints: it loads
// the row under a row lock, applies fn, and persists the full result in the
// same transaction. The engine produces the complete next state, so every
// mutable column is overwritten. An error from fn aborts the update and is
// returned unchanged.
func (s *Store) UpdateComplaint(ctx context.Context, id string, fn func(models.Complaint) (models.Complaint, error)) (models.Complaint, error) {
	var out models.Complaint
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := scanComplaint(tx.QueryRow(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		next, err := fn(c)
		if err != nil {
			return err
		}
		args, err := complaintArgs(next)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, updateComplaintSQL, args...); err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

func (s *Store) DeleteComplaint(ctx context.Context, id string) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}
