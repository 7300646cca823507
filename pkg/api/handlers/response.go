package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/pkg/mount"
)

// Response is the envelope of health responses.
type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// MountInfo describes a mount for API and CLI output.
type MountInfo struct {
	MountPoint string            `json:"mount_point" yaml:"mount_point"`
	Backend    string            `json:"backend" yaml:"backend"`
	StorageID  string            `json:"storage_id" yaml:"storage_id"`
	NumericID  int64             `json:"numeric_id,omitempty" yaml:"numeric_id,omitempty"`
	ReadOnly   bool              `json:"read_only" yaml:"read_only"`
	Options    map[string]string `json:"options,omitempty" yaml:"options,omitempty"`
}

// Resolution is the answer to a resolve query.
type Resolution struct {
	Path         string    `json:"path" yaml:"path"`
	InternalPath string    `json:"internal_path" yaml:"internal_path"`
	Mount        MountInfo `json:"mount" yaml:"mount"`
}

// NewMountInfo builds the description of m. When r is non-nil the numeric
// storage id is looked up; a storage missing from the catalog reports 0.
func NewMountInfo(ctx context.Context, m *mount.Mount, r mount.NumericIDResolver) MountInfo {
	info := MountInfo{
		MountPoint: m.MountPoint(),
		Backend:    backendType(m.Storage()),
		StorageID:  m.StorageID(),
		ReadOnly:   m.ReadOnly(),
		Options:    m.Options(),
	}
	if len(info.Options) == 0 {
		info.Options = nil
	}

	if r != nil {
		if id, err := m.NumericID(ctx, r); err == nil {
			info.NumericID = id
		} else {
			logger.DebugCtx(ctx, "Numeric id unavailable",
				logger.KeyStorageID, m.StorageID(),
				logger.KeyError, err)
		}
	}
	return info
}

// NewMountInfos describes mounts in order.
func NewMountInfos(ctx context.Context, mounts []*mount.Mount, r mount.NumericIDResolver) []MountInfo {
	infos := make([]MountInfo, 0, len(mounts))
	for _, m := range mounts {
		infos = append(infos, NewMountInfo(ctx, m, r))
	}
	return infos
}

func backendType(s mount.Storage) string {
	if typed, ok := s.(interface{ Type() string }); ok {
		return typed.Type()
	}
	return "unknown"
}

// writeJSON writes a JSON response with the given status code.
// Encoding happens before headers are sent so failures can still become a 500.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", logger.KeyError, err)
		http.Error(w, `{"status":"error","error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
