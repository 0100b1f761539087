package reconcile

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"inventory-sync/core/storage"
	"inventory-sync/feature/vehicle/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// maxImageBytes bounds a single image download.
const maxImageBytes = 20 << 20

var (
	errImageTooLarge   = errors.New("image exceeds size limit")
	errInvalidImageURL = errors.New("invalid image url")
	errEmptyImage      = errors.New("empty image body")
)

// ImageStore records imported images.
type ImageStore interface {
	Identity(ctx context.Context, vehicleID uint) (string, error)
	ImagesOf(ctx context.Context, vehicleID uint) ([]models.VehicleImage, error)
	AddImage(ctx context.Context, img *models.VehicleImage) error
	SetPrimary(ctx context.Context, vehicleID, imageID uint) error
	ArrangeGallery(ctx context.Context, vehicleID uint, ordered []uint) error
}

// ImporterConfig configures an Importer.
type ImporterConfig struct {
	Client storage.Client
	Bucket string
	// Prefix is the object key prefix, "vehicles" when empty.
	Prefix string
	// Timeout bounds one download. Zero means 15 seconds.
	Timeout time.Duration
	// Rate is the number of downloads per second. Zero or less disables throttling.
	Rate float64
	// HTTPClient overrides the download client. Its timeout wins over Timeout.
	HTTPClient *http.Client
}

// Importer implements reconcile.ImageAttacher: it downloads images, uploads them to
// the bucket and records them against the vehicle.
type Importer struct {
	client  storage.Client
	bucket  string
	prefix  string
	http    *http.Client
	limiter *rate.Limiter
	store   ImageStore
}

// NewImporter creates an image importer.
func NewImporter(cfg ImporterConfig, store ImageStore) *Importer {
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "vehicles"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}
	return &Importer{
		client:  cfg.Client,
		bucket:  cfg.Bucket,
		prefix:  prefix,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		store:   store,
	}
}

// AttachImages imports refs in order. URLs already attached to the vehicle are reused.
// With setFirstAsPrimary the first attached image becomes the primary one. The gallery
// is then rewritten to the attached images in feed order; images no longer listed are
// detached. It returns the number of attached images and one error per failed URL.
func (im *Importer) AttachImages(ctx context.Context, vehicleID uint, refs []string, setFirstAsPrimary bool) (int, []error) {
	identity, err := im.store.Identity(ctx, vehicleID)
	if err != nil {
		return 0, []error{err}
	}
	existing, err := im.store.ImagesOf(ctx, vehicleID)
	if err != nil {
		return 0, []error{err}
	}
	byURL := make(map[string]models.VehicleImage, len(existing))
	for _, img := range existing {
		byURL[img.SourceURL] = img
	}

	var (
		errs     error
		attached int
		primary  bool
		gallery  []uint
	)
	seen := make(map[uint]bool, len(refs))
	for pos, ref := range refs {
		img, ok := byURL[ref]
		if !ok {
			created, err := im.importOne(ctx, vehicleID, identity, ref, pos)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("image %s: %w", ref, err))
				if ctx.Err() != nil {
					// The rest of the list was never looked at, keep the gallery as is.
					return attached, multierr.Errors(errs)
				}
				continue
			}
			img = *created
			byURL[ref] = img
		}
		if seen[img.ID] {
			continue
		}
		seen[img.ID] = true
		gallery = append(gallery, img.ID)
		attached++

		if setFirstAsPrimary && !primary {
			primary = true
			if err := im.store.SetPrimary(ctx, vehicleID, img.ID); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	if err := im.store.ArrangeGallery(ctx, vehicleID, gallery); err != nil {
		errs = multierr.Append(errs, err)
	}
	return attached, multierr.Errors(errs)
}

func (im *Importer) importOne(ctx context.Context, vehicleID uint, identity, ref string, pos int) (*models.VehicleImage, error) {
	if err := im.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	body, err := im.download(ctx, ref)
	if err != nil {
		return nil, err
	}

	mt := mimetype.Detect(body)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("unexpected content type %s", mt.String())
	}

	key := im.objectKey(identity, ref, mt.Extension())
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	_, err = im.client.PutObject(ctx, im.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	img := &models.VehicleImage{
		VehicleID:   vehicleID,
		SourceURL:   ref,
		ObjectKey:   key,
		ContentType: contentType,
		Position:    pos,
	}
	if err := im.store.AddImage(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (im *Importer) download(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errInvalidImageURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := im.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(body) > maxImageBytes {
		return nil, errImageTooLarge
	}
	if len(body) == 0 {
		return nil, errEmptyImage
	}
	return body, nil
}

// objectKey places an image under <prefix>/<identity>/<sha1 of url><ext>, so a
// re-import of the same URL overwrites the same object.
func (im *Importer) objectKey(identity, ref, ext string) string {
	sum := sha1.Sum([]byte(ref))
	return path.Join(im.prefix, url.PathEscape(identity), hex.EncodeToString(sum[:])+ext)
}
