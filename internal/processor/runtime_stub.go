//go:build !govips || !cgo

package processor

func Startup() error {
	return nil
}

func Shutdown() {}

func newEncoder() (Encoder, error) {
	return webpEncoder{}, nil
}
