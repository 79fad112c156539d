package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func InitLogger(level slog.Level) {
	handler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
		// CloudWatch renders ANSI escapes literally
		NoColor: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
	})

	slog.SetDefault(slog.New(handler))
}
