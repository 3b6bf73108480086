package service

type StartResult struct {
	SessionID string
	Message   string
	NextStep  string
}

type VerifyResult struct {
	Token     string
	ExpiresIn int64
	SessionID string
	User      *UserSummary

	// SignInError is set when Telegram rejected the code or password. The
	// pending record is kept so the caller can retry verify.
	SignInError string
}

type UserSummary struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string

	// PhoneNumber is the original string supplied to start, not the
	// normalized form sent to Telegram.
	PhoneNumber string
}
