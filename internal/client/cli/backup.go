package cli

import (
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/fintrack/internal/client/backup"
)

const encryptFlag = "--encrypt"

// Export writes a snapshot of the local ledger to a file path, an http(s)
// URL or an s3://bucket/key location: export <dest> [--encrypt].
func (a *App) Export(ctx context.Context, args []string) error {
	dest, encrypt, ok := backupArgs(args)
	if !ok {
		a.println("Usage: export <path|url|s3://bucket/key> [--encrypt]")
		return nil
	}

	passphrase, err := a.passphrase(encrypt)
	if err != nil {
		return a.fail(ctx, "export", err)
	}

	d, err := backup.Open(ctx, dest, a.s3Config())
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	snap, err := backup.Export(ctx, a.ledger, a.clock.Now())
	if err != nil {
		return a.fail(ctx, "export", err)
	}
	if err := backup.Save(ctx, d, snap, passphrase); err != nil {
		return a.fail(ctx, "export", err)
	}

	a.printf("Exported %d records to %s\n", len(snap.Records()), d)
	return nil
}

// Import replaces the local ledger with a snapshot and queues every record
// for upload: import <src> [--encrypt].
func (a *App) Import(ctx context.Context, args []string) error {
	src, encrypt, ok := backupArgs(args)
	if !ok {
		a.println("Usage: import <path|url|s3://bucket/key> [--encrypt]")
		return nil
	}

	pending, err := a.ledger.Pending(ctx)
	if err != nil {
		return a.fail(ctx, "import", err)
	}
	if pending > 0 {
		answer, err := GetSimpleText(a.reader, "Unsynced local changes will be lost. Continue? (yes/no)", a.out)
		if err != nil {
			return a.fail(ctx, "import", err)
		}
		if answer != "yes" {
			a.println("Import cancelled")
			return nil
		}
	}

	passphrase, err := a.passphrase(encrypt)
	if err != nil {
		return a.fail(ctx, "import", err)
	}

	d, err := backup.Open(ctx, src, a.s3Config())
	if err != nil {
		return a.fail(ctx, "import", err)
	}
	snap, err := backup.Load(ctx, d, passphrase)
	if err != nil {
		return a.fail(ctx, "import", err)
	}
	n, err := backup.Import(ctx, a.ledger, snap)
	if err != nil {
		return a.fail(ctx, "import", err)
	}

	a.printf("Imported %d records from %s\n", n, d)
	return nil
}

func backupArgs(args []string) (location string, encrypt bool, ok bool) {
	encrypt = slices.Contains(args, encryptFlag)
	rest := slices.DeleteFunc(slices.Clone(args), func(s string) bool { return s == encryptFlag })
	if len(rest) != 1 || strings.HasPrefix(rest[0], "-") {
		return "", false, false
	}
	return rest[0], encrypt, true
}

func (a *App) passphrase(encrypt bool) (string, error) {
	if !encrypt {
		return "", nil
	}
	pw, err := GetPassword("Backup passphrase", a.out)
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return string(pw), nil
}
