package resumes

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvmatch-backend/internal/shared/storage/object"
	"cvmatch-backend/internal/shared/util"
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Service governs the three-phase upload protocol and résumé reads.
type Service struct {
	Repo            Repo
	Contents        ContentChecker
	Store           object.ObjectStore
	PresignExpiry   time.Duration
	ProcessingGrace time.Duration

	now func() time.Time
}

// RequestUploadSlot reserves an object path for a new résumé and returns a
// short-lived write URL scoped to exactly that path. The opaque identifier in
// the path later becomes the résumé's primary id at finalize, so the
// extraction worker can resolve one from the other without a lookup table.
func (s *Service) RequestUploadSlot(ctx context.Context, profileID, storageKey, fileName string) (UploadSlot, error) {
	if strings.TrimSpace(profileID) == "" {
		return UploadSlot{}, ErrUnauthenticated
	}
	if strings.TrimSpace(storageKey) == "" {
		return UploadSlot{}, ErrUnconfigured
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return UploadSlot{}, fmt.Errorf("%w: %s", ErrUnsupportedType, fileName)
	}
	if _, ok := allowedExtensions[strings.ToLower(path.Ext(sanitized))]; !ok {
		return UploadSlot{}, ErrUnsupportedType
	}

	resumeID := uuid.NewString()
	objectPath := storageKey + "/" + resumeID + "/" + sanitized

	expiry := s.PresignExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	uploadURL, err := s.Store.PresignPut(ctx, objectPath, expiry)
	if err != nil {
		return UploadSlot{}, fmt.Errorf("presign upload path=%s: %w", objectPath, err)
	}

	return UploadSlot{
		ResumeID:         resumeID,
		Path:             objectPath,
		UploadURL:        uploadURL,
		ExpiresInSeconds: int64(expiry.Seconds()),
	}, nil
}

// ValidateComplete pre-flights an upload before the client streams bytes.
// Purely advisory: it performs no writes, it only lets the client fail fast
// on naming and ownership problems.
func (s *Service) ValidateComplete(ctx context.Context, profileID, storageKey, objectPath, fileName string, sizeBytes int64) error {
	if strings.TrimSpace(profileID) == "" {
		return ErrUnauthenticated
	}
	if strings.TrimSpace(storageKey) == "" {
		return ErrUnconfigured
	}
	if _, err := splitObjectPath(objectPath, storageKey); err != nil {
		return err
	}

	exists, err := s.Repo.FileNameExists(ctx, storageKey, fileName)
	if err != nil {
		return fmt.Errorf("check file name storage_key=%s: %w", storageKey, err)
	}
	if exists {
		return ErrDuplicateName
	}

	if _, err := s.Repo.GetByPath(ctx, objectPath); err == nil {
		return ErrDuplicatePath
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check path %s: %w", objectPath, err)
	}
	return nil
}

// FinalizeUpload records the résumé after the client confirms the byte
// transfer. The identifier embedded in the path becomes the row's primary id.
func (s *Service) FinalizeUpload(ctx context.Context, profileID, storageKey, objectPath, fileName string, sizeBytes int64) (Resume, error) {
	if strings.TrimSpace(profileID) == "" {
		return Resume{}, ErrUnauthenticated
	}
	if strings.TrimSpace(storageKey) == "" {
		return Resume{}, ErrUnconfigured
	}
	resumeID, err := splitObjectPath(objectPath, storageKey)
	if err != nil {
		return Resume{}, err
	}

	if _, err := s.Repo.GetByPath(ctx, objectPath); err == nil {
		return Resume{}, ErrAlreadyFinalized
	} else if !errors.Is(err, ErrNotFound) {
		return Resume{}, fmt.Errorf("check path %s: %w", objectPath, err)
	}

	exists, err := s.Repo.FileNameExists(ctx, storageKey, fileName)
	if err != nil {
		return Resume{}, fmt.Errorf("check file name storage_key=%s: %w", storageKey, err)
	}
	if exists {
		return Resume{}, ErrDuplicateName
	}

	maxVersion, err := s.Repo.MaxVersion(ctx, storageKey)
	if err != nil {
		return Resume{}, fmt.Errorf("max version storage_key=%s: %w", storageKey, err)
	}

	now := s.clock()
	resume := Resume{
		ID:         resumeID,
		ProfileID:  profileID,
		StorageKey: storageKey,
		FilePath:   objectPath,
		FileName:   fileName,
		SizeBytes:  sizeBytes,
		Version:    maxVersion + 1,
		IsActive:   true,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		if errors.Is(err, ErrDuplicatePath) {
			return Resume{}, ErrAlreadyFinalized
		}
		return Resume{}, err
	}
	return resume, nil
}

// Get returns a résumé with its effective status, verifying ownership.
func (s *Service) Get(ctx context.Context, profileID, resumeID string) (Resume, error) {
	resume, err := s.ownedResume(ctx, profileID, resumeID)
	if err != nil {
		return Resume{}, err
	}
	return s.withEffectiveStatus(ctx, resume)
}

// List returns all non-deleted résumés for a profile with effective statuses.
func (s *Service) List(ctx context.Context, profileID string) ([]Resume, error) {
	if strings.TrimSpace(profileID) == "" {
		return nil, ErrUnauthenticated
	}
	list, err := s.Repo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]Resume, 0, len(list))
	for _, r := range list {
		resolved, err := s.withEffectiveStatus(ctx, r)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Delete soft-deletes a résumé owned by the profile.
func (s *Service) Delete(ctx context.Context, profileID, resumeID string) error {
	if _, err := s.ownedResume(ctx, profileID, resumeID); err != nil {
		return err
	}
	return s.Repo.SoftDelete(ctx, resumeID, profileID)
}

func (s *Service) ownedResume(ctx context.Context, profileID, resumeID string) (Resume, error) {
	if strings.TrimSpace(profileID) == "" {
		return Resume{}, ErrUnauthenticated
	}
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return Resume{}, err
	}
	if resume.ProfileID != profileID || resume.DeletedAt != nil {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

func (s *Service) withEffectiveStatus(ctx context.Context, resume Resume) (Resume, error) {
	contentExists := false
	if s.Contents != nil {
		exists, err := s.Contents.ExistsByResumeID(ctx, resume.ID)
		if err != nil {
			return Resume{}, fmt.Errorf("check content resume_id=%s: %w", resume.ID, err)
		}
		contentExists = exists
	}
	grace := s.ProcessingGrace
	if grace <= 0 {
		grace = 45 * time.Second
	}
	resume.Status = EffectiveStatus(resume.CreatedAt, resume.Status, contentExists, s.clock(), grace)
	return resume, nil
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

// splitObjectPath checks the {storageKey}/{resumeId}/{fileName} shape and
// ownership prefix, returning the embedded résumé id.
func splitObjectPath(objectPath, storageKey string) (string, error) {
	if !strings.HasPrefix(objectPath, storageKey+"/") {
		return "", ErrPathMismatch
	}
	rest := strings.TrimPrefix(objectPath, storageKey+"/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ErrPathMismatch
	}
	return parts[0], nil
}
