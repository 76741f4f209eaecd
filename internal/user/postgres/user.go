package postgres

import (
	"strings"
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository and auth.Repository with GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var u user.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u user.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateRefreshToken overwrites the persisted session token. An empty token
// clears the session.
func (r *UserRepository) UpdateRefreshToken(userID int64, token string) error {
	return r.db.Model(&user.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token": token,
			"updated_at":    time.Now(),
		}).Error
}

// GetByIDs fetches several users in one round trip, keyed by id. Used to
// denormalize uploader and approver identities on document listings.
func (r *UserRepository) GetByIDs(ids []int64) (map[int64]*user.User, error) {
	result := make(map[int64]*user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var users []*user.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}
