package postgres

import (
	"time"

	"github.com/abhay-gupta-199/kmrl-backend/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements document.Repository using GORM.
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(d *document.Document) error {
	return r.db.Create(d).Error
}

func (r *DocumentRepository) GetByID(id int64) (*document.Document, error) {
	var d document.Document
	err := r.db.Where("id = ?", id).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListVisible translates the declarative visibility filter into an OR'd WHERE
// clause. An unrestricted filter selects everything.
func (r *DocumentRepository) ListVisible(f document.Filter) ([]*document.Document, error) {
	query := r.db.Model(&document.Document{})

	if !f.Unrestricted {
		if len(f.Clauses) == 0 {
			return []*document.Document{}, nil
		}

		var cond *gorm.DB
		for _, c := range f.Clauses {
			clauseQuery := r.db.Where("audience = ?", c.Audience)
			if c.TargetDepartment != "" {
				clauseQuery = clauseQuery.Where("target_department = ?", c.TargetDepartment)
			}
			if c.TargetEmployee != 0 {
				clauseQuery = clauseQuery.Where("target_employee = ?", c.TargetEmployee)
			}

			if cond == nil {
				cond = clauseQuery
			} else {
				cond = cond.Or(clauseQuery)
			}
		}
		query = query.Where(cond)
	}

	var docs []*document.Document
	err := query.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) UpdateDecision(id int64, status document.ApprovalStatus, approvedBy int64) error {
	return r.db.Model(&document.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"approval_status": status,
			"approved_by":     approvedBy,
			"updated_at":      time.Now(),
		}).Error
}

func (r *DocumentRepository) UpdateStatus(id int64, status document.Status) error {
	return r.db.Model(&document.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
