package mysql

import (
	"time"

	"gorm.io/gorm"
)

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. GoogleID可为NULL，唯一索引只约束已绑定的账号
type UserModel struct {
	ID         uint           `gorm:"primaryKey"`
	Email      string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password   string         `gorm:"size:255;not null;default:'';comment:密码（bcrypt加密，Google账号为空）"`
	Name       string         `gorm:"size:50;not null;comment:姓名"`
	Username   string         `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	Role       string         `gorm:"size:10;not null;default:user;index;comment:角色 user|admin"`
	Phone      string         `gorm:"size:20;comment:电话"`
	Address    string         `gorm:"size:255;comment:地址"`
	City       string         `gorm:"size:100;comment:城市"`
	Avatar     string         `gorm:"size:500;comment:头像URL"`
	GoogleID   *string        `gorm:"uniqueIndex;size:64;comment:Google账号ID"`
	IsVerified bool           `gorm:"not null;default:false;comment:邮箱是否已验证"`
	CreatedAt  time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"comment:更新时间"`
	DeletedAt  gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64整数存储(避免浮点数精度问题)
// 2. sold/views/rating用于首页书架排序,分别建索引
// 3. stock使用无符号列,数据库层面再兜底一次非负约束
type BookModel struct {
	ID            uint           `gorm:"primaryKey"`
	Title         string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Slug          string         `gorm:"index;size:220;comment:URL友好名称"`
	Author        string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Description   string         `gorm:"type:text;comment:图书描述"`
	Category      string         `gorm:"index;size:100;not null;comment:分类"`
	Image         string         `gorm:"size:500;comment:封面图片URL"`
	Price         int64          `gorm:"index;not null;comment:售价"`
	OriginalPrice int64          `gorm:"not null;default:0;comment:原价"`
	Stock         int            `gorm:"type:int unsigned;not null;default:0;comment:库存数量"`
	Sold          int            `gorm:"index;not null;default:0;comment:累计销量"`
	Views         int            `gorm:"index;not null;default:0;comment:浏览次数"`
	Rating        float64        `gorm:"index;not null;default:0;comment:平均评分"`
	NumReviews    int            `gorm:"not null;default:0;comment:评价数"`
	CreatedBy     uint           `gorm:"index;comment:上架管理员ID"`
	CreatedAt     time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time      `gorm:"comment:更新时间"`
	DeletedAt     gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. Status使用tinyint存储,数值与接口一致
type OrderModel struct {
	ID              uint               `gorm:"primaryKey"`
	OrderNo         string             `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID          uint               `gorm:"index:idx_user_created;not null;comment:买家用户ID"`
	Shipping        ShippingAddressCol `gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   string             `gorm:"size:20;not null;default:COD;comment:支付方式"`
	ItemsPrice      int64              `gorm:"not null;comment:商品金额"`
	ShippingPrice   int64              `gorm:"not null;comment:运费"`
	TotalPrice      int64              `gorm:"not null;comment:订单总金额"`
	Status          int                `gorm:"index;type:tinyint;not null;default:1;comment:订单状态(1新订单2已确认3备货中4配送中5已送达6已取消)"`
	IsPaid          bool               `gorm:"not null;default:false;comment:是否已支付"`
	PaidAt          *time.Time         `gorm:"comment:支付时间"`
	ConfirmedAt     *time.Time         `gorm:"comment:确认时间"`
	DeliveredAt     *time.Time         `gorm:"comment:送达时间"`
	CancelledAt     *time.Time         `gorm:"comment:取消时间"`
	CancelRequested bool               `gorm:"index;not null;default:false;comment:用户申请取消"`
	CancelReason    string             `gorm:"size:500;comment:取消原因"`
	Items           []OrderItemModel   `gorm:"foreignKey:OrderID"` // 一对多关联
	CreatedAt       time.Time          `gorm:"index:idx_user_created;comment:创建时间"`
	UpdatedAt       time.Time          `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// ShippingAddressCol 收货地址(内嵌列 shipping_*)
type ShippingAddressCol struct {
	FullName string `gorm:"size:100;comment:收货人"`
	Address  string `gorm:"size:255;comment:详细地址"`
	City     string `gorm:"size:100;comment:城市"`
	Phone    string `gorm:"size:20;comment:联系电话"`
}

// OrderItemModel GORM订单明细模型
// 记录下单时的书名、封面、单价快照
type OrderItemModel struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index;not null;comment:订单ID"`
	BookID   uint   `gorm:"index;not null;comment:图书ID"`
	Title    string `gorm:"size:200;not null;comment:下单时书名"`
	Image    string `gorm:"size:500;comment:下单时封面"`
	Quantity int    `gorm:"not null;comment:购买数量"`
	Price    int64  `gorm:"not null;comment:下单时单价"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ReviewModel GORM评价模型
// (user_id, book_id)唯一索引保证每人每书只评价一次
type ReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	BookID    uint      `gorm:"uniqueIndex:uk_review_user_book,priority:2;index:idx_review_book;not null;comment:图书ID"`
	UserID    uint      `gorm:"uniqueIndex:uk_review_user_book,priority:1;not null;comment:用户ID"`
	Name      string    `gorm:"size:50;not null;comment:评价人姓名快照"`
	Rating    int       `gorm:"type:tinyint;not null;comment:评分1-5"`
	Comment   string    `gorm:"type:text;not null;comment:评价内容"`
	CreatedAt time.Time `gorm:"index:idx_review_book;comment:创建时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// StockLogModel 库存流水
// 只增不改
type StockLogModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"index:idx_stock_log_book;not null;comment:图书ID"`
	ChangeType  string    `gorm:"type:varchar(20);not null;comment:变更类型"`
	Quantity    int       `gorm:"not null;comment:变更数量(正增负减)"`
	BeforeStock int       `gorm:"not null;comment:变更前库存"`
	AfterStock  int       `gorm:"not null;comment:变更后库存"`
	OrderID     uint      `gorm:"index;comment:关联订单ID"`
	OperatorID  uint      `gorm:"comment:操作人ID"`
	Remark      string    `gorm:"size:255;comment:备注"`
	CreatedAt   time.Time `gorm:"index:idx_stock_log_book;comment:创建时间"`
}

// TableName 指定表名
func (StockLogModel) TableName() string {
	return "stock_logs"
}
