package book

import (
	"context"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// PublishBook 发布图书(上架),仅管理员调用
	PublishBook(ctx context.Context, attrs Attributes, adminID uint) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 整体替换可编辑字段
	// 返回更新后的图书和库存变化量
	UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, int, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PublishBook 发布图书
func (s *service) PublishBook(ctx context.Context, attrs Attributes, adminID uint) (*Book, error) {
	// 1. 创建图书实体(工厂方法内完成字段校验)
	b, err := NewBook(attrs, adminID)
	if err != nil {
		return nil, err
	}

	// 2. 持久化
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书
func (s *service) UpdateBook(ctx context.Context, id uint, attrs Attributes) (*Book, int, error) {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	// 2. 替换字段
	delta, err := b.Update(attrs)
	if err != nil {
		return nil, 0, err
	}

	// 3. 持久化
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, 0, err
	}
	return b, delta, nil
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	return s.repo.List(ctx, params)
}
