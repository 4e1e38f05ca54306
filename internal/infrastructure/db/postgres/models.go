package postgres

import "time"

type RoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (RoleModel) TableName() string {
	return "roles"
}

type UserModel struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"not null"`
	Username  string      `gorm:"uniqueIndex;not null"`
	Email     string      `gorm:"uniqueIndex;not null"`
	Password  string      `gorm:"not null"`
	Roles     []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt time.Time   `gorm:"not null"`
	UpdatedAt time.Time   `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

type CategoryModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

type PostModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Content     string    `gorm:"type:text;not null"`
	CategoryID  string    `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (PostModel) TableName() string {
	return "posts"
}

type CommentModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	PostID    string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string {
	return "comments"
}

type AuthEventModel struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	Type       string    `gorm:"index;not null"`
	Username   string    `gorm:"index;not null"`
	Success    bool      `gorm:"not null"`
	Detail     string
	OccurredAt time.Time `gorm:"index;not null"`
}

func (AuthEventModel) TableName() string {
	return "auth_events"
}
