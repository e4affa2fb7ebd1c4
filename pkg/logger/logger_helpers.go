package logger

import (
	"time"

	"go.uber.org/zap"
)

func String(key, value string) zap.Field {
	return zap.String(key, value)
}

func Strings(key string, values []string) zap.Field {
	return zap.Strings(key, values)
}

func Int(key string, value int) zap.Field {
	return zap.Int(key, value)
}

func Duration(key string, value time.Duration) zap.Field {
	return zap.Duration(key, value)
}

func Bool(key string, value bool) zap.Field {
	return zap.Bool(key, value)
}

// Canonical fields shared by the controller and the agent, so both services
// log an operation under the same keys.

func Operation(name string) zap.Field {
	return zap.String(FieldOperation, name)
}

func SiteID(id string) zap.Field {
	return zap.String(FieldSiteID, id)
}

func Category(category string) zap.Field {
	return zap.String(FieldCategory, category)
}

func Success(ok bool) zap.Field {
	return zap.Bool(FieldSuccess, ok)
}

func HTTPCode(code int) zap.Field {
	return zap.Int(FieldHTTPCode, code)
}

// BatchCounts summarizes a batch of independent attempts.
func BatchCounts(total, failed int) []zap.Field {
	return []zap.Field{
		zap.Int(FieldItemCount, total),
		zap.Int(FieldSuccessCount, total-failed),
		zap.Int(FieldFailedCount, failed),
	}
}
