package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketplace-service/models"
)

type UserFilter struct {
	Role   string
	Status string
	Page   int
	Limit  int
}

type IUserRepo interface {
	Create(ctx context.Context, user models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, int, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id int64) (bool, error)
}

func NewUserRepo(db *sqlx.DB) IUserRepo {
	return &userRepo{db: db}
}

type userRepo struct {
	db *sqlx.DB
}

var createUserQuery = `
	INSERT INTO users (name, email, password, role, status)
	VALUES (?, ?, ?, ?, ?)`

func (r *userRepo) Create(ctx context.Context, user models.User) (int64, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, createUserQuery,
		user.Name, user.Email, user.Password, user.Role, user.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

var getUserQuery = "SELECT * FROM users WHERE id = ?"

func (r *userRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	var res models.User
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getUserQuery, id)
	return res, err
}

var getUserByEmailQuery = "SELECT * FROM users WHERE email = ?"

func (r *userRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var res models.User
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &res, getUserByEmailQuery, email)
	return res, err
}

func (r *userRepo) List(ctx context.Context, f UserFilter) ([]models.User, int, error) {
	where := "WHERE 1=1"
	var args []any
	if f.Role != "" {
		where += " AND role = ?"
		args = append(args, f.Role)
	}
	if f.Status != "" {
		where += " AND status = ?"
		args = append(args, f.Status)
	}

	var total int
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &total,
		"SELECT COUNT(*) FROM users "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	limit, offset := pageClause(f.Page, f.Limit)
	var res []models.User
	err = sqlx.SelectContext(ctx, ext(ctx, r.db), &res,
		"SELECT * FROM users "+where+" ORDER BY created_at DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	return res, total, err
}

var updateUserQuery = `
	UPDATE users SET name = ?, email = ?, role = ?, status = ?, updated_at = NOW()
	WHERE id = ?`

func (r *userRepo) Update(ctx context.Context, user models.User) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, updateUserQuery,
		user.Name, user.Email, user.Role, user.Status, user.ID)
	return err
}

func (r *userRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := ext(ctx, r.db).ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
