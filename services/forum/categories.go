package forum

import (
	. "Townhall/common"
	"Townhall/model"
	"context"
	"errors"
	"strings"

	"gitlab.com/CoiaPrant/clog"
	"gorm.io/gorm"
)

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := s.db().WithContext(ctx).Order("id").Find(&categories).Error
	if err != nil {
		return nil, dbError(err, "Could not load categories.")
	}

	return categories, nil
}

func (s *Service) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := s.db().WithContext(ctx).Where("id", id).Limit(1).Find(&category).Error
	if err != nil {
		return nil, dbError(err, "Could not load category.")
	}

	if category.Id == 0 {
		return nil, NotFound("Category with ID '%d' not found.", id)
	}

	return &category, nil
}

func (s *Service) CategoryTopics(ctx context.Context, id int64, q model.Query) (*model.Category, []model.Topic, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	topics := []model.Topic{}
	err = s.db().WithContext(ctx).Where("category_id", id).Scopes(pageOf(q)).Find(&topics).Error
	if err != nil {
		return nil, nil, dbError(err, "Could not load topics.")
	}

	return category, topics, nil
}

func (s *Service) CreateCategory(ctx context.Context, actor *model.User, name, imageURL string) (*model.Category, error) {
	if err := CanManageCategories(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("Category name must not be empty.")
	}

	var count int64
	err := s.db().WithContext(ctx).Model(model.Category{}).Where("name", name).Count(&count).Error
	if err != nil {
		return nil, dbError(err, "Could not create category.")
	}

	if count > 0 {
		return nil, BadRequest("Invalid category name: %s", name)
	}

	category := &model.Category{Name: name, ImageURL: strings.TrimSpace(imageURL)}
	err = s.db().WithContext(ctx).Create(category).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, BadRequest("Invalid category name: %s", name)
	}

	if err != nil {
		return nil, dbError(err, "Could not create category.")
	}

	clog.Infof("[Forum] category %d '%s' created by %s", category.Id, category.Name, actor.Username)
	return category, nil
}

func (s *Service) SetCategoryLock(ctx context.Context, actor *model.User, id int64, locked bool) (*model.Category, error) {
	return s.updateCategory(ctx, actor, id, "is_locked", locked, "Could not update lock status.")
}

func (s *Service) SetCategoryPrivacy(ctx context.Context, actor *model.User, id int64, private bool) (*model.Category, error) {
	return s.updateCategory(ctx, actor, id, "is_private", private, "Could not update privacy. Try again?")
}

func (s *Service) updateCategory(ctx context.Context, actor *model.User, id int64, column string, value bool, failure string) (*model.Category, error) {
	if err := CanManageCategories(actor); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db().WithContext(ctx).Model(model.Category{}).Where("id", id).Update(column, value).Error
	if err != nil {
		return nil, dbError(err, failure)
	}

	clog.Infof("[Forum] category %d %s=%t by %s", id, column, value, actor.Username)
	return s.GetCategory(ctx, category.Id)
}
