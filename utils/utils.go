package utils

import (
	"strings"

	"github.com/raushankrgupta/chicforgeeks-api/logger"
)

func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {

	if logMessagesBuilder.Len() == logMessagesBuilder.Cap() {

		logMessagesBuilder.Grow(len(strToAdd))
	}

	logMessagesBuilder.WriteString(strToAdd)
	logMessagesBuilder.WriteString(";")
	logMessagesBuilder.WriteString("\n")
}

// FlushLogMessage writes the collected request log as one entry.
func FlushLogMessage(log *logger.Logger, logMessagesBuilder *strings.Builder) {
	if logMessagesBuilder.Len() == 0 {
		return
	}
	log.Info(strings.TrimSuffix(logMessagesBuilder.String(), "\n"))
}
