package message

const (
	InvalidInput   = "Invalid input."
	InvalidToken   = "Invalid or missing token."
	InvalidProgram = "Program could not be parsed."
	SessionGone    = "Session not found."
	EnvErrFmt      = "environment variable is not set: %s"
)
