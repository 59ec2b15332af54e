// Package validate checks form input before it reaches the network.
package validate

import (
	"regexp"
	"strings"
)

// Status texts shown when a form is rejected.
const (
	MsgAllFieldsRequired = "All fields are required!"
	MsgInvalidEmail      = "Enter a valid email!"
	MsgPasswordTooShort  = "Password must be at least 6 characters!"
	MsgPasswordMismatch  = "Passwords must be a match!"
	MsgInvalidURL        = "Enter a valid URL"
)

// MinPasswordLen is the shortest password the register form accepts.
const MinPasswordLen = 6

// Error is a rejected form. Its text is what the form shows.
type Error struct {
	Text string
}

func (e *Error) Error() string { return e.Text }

var (
	emailRe = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	// urlRe is unanchored: a scheme-qualified URL anywhere in the input passes.
	urlRe = regexp.MustCompile(`(ftp|http|https)://(\w+:?\w*@)?(\S+)(:[0-9]+)?(/|/([\w#!:.?+=&%@\-/]))?`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// URL reports whether s contains an ftp, http or https URL.
func URL(s string) bool {
	return urlRe.MatchString(s)
}

// RegisterForm is the input of the registration form.
type RegisterForm struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Check returns the status text for the first rule f breaks, or "" when f is
// valid. Missing names win over a bad email, which wins over a short
// password, which wins over a mismatch.
func (f RegisterForm) Check() string {
	switch {
	case strings.TrimSpace(f.FirstName) == "" || strings.TrimSpace(f.LastName) == "":
		return MsgAllFieldsRequired
	case !Email(f.Email):
		return MsgInvalidEmail
	case len(f.Password) < MinPasswordLen:
		return MsgPasswordTooShort
	case f.Password != f.ConfirmPassword:
		return MsgPasswordMismatch
	}
	return ""
}

// Login returns the status text for an unusable login form, or "".
func Login(email, password string) string {
	switch {
	case email == "" || password == "":
		return MsgAllFieldsRequired
	case !Email(email):
		return MsgInvalidEmail
	}
	return ""
}
