package snippet

// Cipher protects snippet code at rest.
type Cipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}

// plain stores code as is.
type plain struct{}

func (plain) Encrypt(s string) (string, error) { return s, nil }
func (plain) Decrypt(s string) (string, error) { return s, nil }
