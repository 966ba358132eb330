package auth

// Claims es la identidad autenticada (Principal) que resuelve el verificador.
// UserID es lo único que el Passport Store usa para autorizar.
type Claims struct {
	UserID string
	Email  string
	Issuer string
}
