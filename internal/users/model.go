package users

// User models a registered account. The password column holds an opaque
// hashed credential and must never travel outward; every response surface
// uses the Public projection instead.
type User struct {
	ID          string `gorm:"column:user_id;primaryKey;size:36;not null"`
	Name        string `gorm:"column:name;size:190;not null"`
	Username    string `gorm:"column:username;size:190;not null;uniqueIndex:idx_users_username"`
	Password    string `gorm:"column:password;size:512;not null"`
	DeviceToken string `gorm:"column:device_token;size:512"`
}

// TableName provides the explicit table binding for GORM.
func (User) TableName() string {
	return "users"
}

// Public is the credential-free projection of a user.
type Public struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ToPublic projects the user into its public shape.
func (u User) ToPublic() Public {
	return Public{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
	}
}
