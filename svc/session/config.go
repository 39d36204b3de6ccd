package session

// Config holds the signing secret shared by every instance of the service.
type Config struct {
	Secret string `env:"JWT_SECRET,required"`
}
