package linkcheck

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

const (
	defaultKVBucket = "blogkit-links"
	defaultSubject  = "blogkit.links.broken"
)

// NATSCache backs the link cache with a JetStream KV bucket so repeated
// runs (and other machines pointed at the same broker) share results. It
// also publishes broken-link events.
type NATSCache struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	kv      jetstream.KeyValue
	subject string
}

// NewNATSCache connects to the broker named in the link_check settings
// and ensures the KV bucket exists.
func NewNATSCache(settings siteconfig.LinkCheckSettings) (*NATSCache, error) {
	return connectNATS(settings.NATSURL, settings.NATSSubject, settings.NATSBucket)
}

func connectNATS(natsURL, subject, bucket string) (*NATSCache, error) {
	if subject == "" {
		subject = defaultSubject
	}
	if bucket == "" {
		bucket = defaultKVBucket
	}

	conn, err := nats.Connect(natsURL, nats.Name("blogkit-linkcheck"))
	if err != nil {
		return nil, blogerr.Wrap(err, blogerr.CategoryLink, blogerr.SeverityError, "connect to NATS").
			WithContext("url", natsURL)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, blogerr.Wrap(err, blogerr.CategoryLink, blogerr.SeverityError, "create JetStream context")
	}

	c := &NATSCache{conn: conn, js: js, subject: subject}
	if err := c.initBucket(bucket); err != nil {
		conn.Close()
		return nil, err
	}

	slog.Info("Link cache backed by NATS", slog.String("bucket", bucket), slog.String("subject", subject))
	return c, nil
}

func (c *NATSCache) initBucket(bucket string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	kv, err := c.js.KeyValue(ctx, bucket)
	if err == nil {
		c.kv = kv
		return nil
	}

	kv, err = c.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "blogkit link verification cache",
		MaxBytes:    64 * 1024 * 1024,
		History:     1,
	})
	if err != nil {
		return blogerr.Wrap(err, blogerr.CategoryLink, blogerr.SeverityError, "create KV bucket").
			WithContext("bucket", bucket)
	}
	c.kv = kv
	return nil
}

// Get retrieves a cached result. URLs are escaped because KV keys cannot
// carry slashes.
func (c *NATSCache) Get(ctx context.Context, rawURL string) (*Entry, bool, error) {
	kvEntry, err := c.kv.Get(ctx, cacheKey(rawURL))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entry Entry
	if err := json.Unmarshal(kvEntry.Value(), &entry); err != nil {
		return nil, false, err
	}
	return &entry, true, nil
}

// Put stores a result under the URL's escaped key.
func (c *NATSCache) Put(ctx context.Context, entry *Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = c.kv.Put(ctx, cacheKey(entry.URL), data)
	return err
}

// PublishBrokenLink emits a broken-link event on the configured subject.
func (c *NATSCache) PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error {
	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = c.js.Publish(ctx, c.subject, data)
	return err
}

// Close drops the broker connection.
func (c *NATSCache) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

func cacheKey(rawURL string) string {
	return url.QueryEscape(rawURL)
}
