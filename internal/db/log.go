// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/ovoronina/healthdiary/internal/logging"

func dbLogf(format string, v ...any) {
	logging.Debugf(format, v...)
}
