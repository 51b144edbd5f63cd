package model

// UserRole 由上游认证系统断言，本服务只消费 (user_id, role)
type UserRole string

const (
	Admin   UserRole = "admin"
	Teacher UserRole = "teacher"
	Student UserRole = "student"
)
