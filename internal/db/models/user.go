package models

import "gorm.io/gorm"

// User is an account that can authenticate against the API. The password
// hash never leaves the database layer.
type User struct {
	gorm.Model
	Login        string `json:"login" gorm:"not null;uniqueIndex"`
	DisplayName  string `json:"display_name" gorm:"column:display_name"`
	PasswordHash string `json:"-" gorm:"column:password_hash"`
	Active       bool   `json:"active" gorm:"default:true"`

	// OAuth identity binding, set for users provisioned through a
	// third-party provider.
	OAuthProviderID  *uint  `json:"oauth_provider_id" gorm:"column:oauth_provider_id;index"`
	OAuthUID         string `json:"oauth_uid" gorm:"column:oauth_uid;index"`
	OAuthAccessToken string `json:"-" gorm:"column:oauth_access_token"`
}

// OAuthProvider is a trusted third-party identity provider. Its
// validation URL answers `GET ?access_token=...` with the external user
// id the token belongs to.
type OAuthProvider struct {
	gorm.Model
	Name          string `json:"name" gorm:"not null;uniqueIndex"`
	ValidationURL string `json:"validation_url" gorm:"not null"`
	Enabled       bool   `json:"enabled" gorm:"default:true"`
}
