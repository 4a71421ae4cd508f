package common

// FieldDelimiter separates fields in the flat-file record formats. It may not
// appear inside any stored text field.
const FieldDelimiter = "|"

// MaxFailedLogins is the default number of consecutive password failures
// after which an account is locked.
const MaxFailedLogins = 5

// PasswordMinLen is the minimal accepted password length.
const PasswordMinLen = 8
