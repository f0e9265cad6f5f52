package api

import (
	"padron/cmd/identity"
	"padron/cmd/profile"
)

type profileCreateRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Avatar      string `json:"avatar"`
	Bio         string `json:"bio"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country"`
}

type profileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Avatar      *string `json:"avatar"`
	Bio         *string `json:"bio"`
	PhoneNumber *string `json:"phoneNumber"`
	Country     *string `json:"country"`
}

type signUpRequest struct {
	Email    string               `json:"email"`
	Username string               `json:"username"`
	Password string               `json:"password"`
	Role     string               `json:"role"`
	Profile  profileCreateRequest `json:"profile"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  identity.User `json:"user"`
	Token string        `json:"token"`
}

type userUpdateRequest struct {
	Email    *string               `json:"email"`
	Username *string               `json:"username"`
	Role     *string               `json:"role"`
	IsActive *bool                 `json:"isActive"`
	Profile  *profileUpdateRequest `json:"profile"`
}

type userListResponse struct {
	Data       []identity.User `json:"data"`
	Total      int64           `json:"total"`
	Page       int64           `json:"page"`
	Limit      int64           `json:"limit"`
	TotalPages int64           `json:"totalPages"`
}

type deleteResponse struct {
	Deleted string `json:"deleted"`
}

type profileListResponse struct {
	Data []profile.Profile `json:"data"`
}

func (p profileCreateRequest) toInput() profile.CreateInput {
	return profile.CreateInput{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Avatar:      p.Avatar,
		Bio:         p.Bio,
		PhoneNumber: p.PhoneNumber,
		Country:     p.Country,
	}
}

func (p profileUpdateRequest) toInput() profile.UpdateInput {
	return profile.UpdateInput{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Avatar:      p.Avatar,
		Bio:         p.Bio,
		PhoneNumber: p.PhoneNumber,
		Country:     p.Country,
	}
}
