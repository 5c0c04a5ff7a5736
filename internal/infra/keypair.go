package infra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"

	"github.com/xerrion/scraper-app/internal/sshkey"
)

var (
	ErrImportKeyPair = fmt.Errorf("failed to import key pair")
	ErrWriteKeyFile  = fmt.Errorf("failed to write private key file")
	ErrDeleteKeyPair = fmt.Errorf("failed to delete key pair")
)

// createKeyPair mints an ed25519 key pair, registers the public half with
// EC2 under keyName, and writes the private half to a 0600 pem file in dir.
// It returns the pem file path.
func createKeyPair(ctx context.Context, client *ec2.Client, keyName, dir string, tags []types.Tag) (string, error) {
	log := clog.FromContext(ctx)

	keys, err := sshkey.New()
	if err != nil {
		return "", err
	}
	pub, err := keys.PublicOpenSSH()
	if err != nil {
		return "", err
	}

	result, err := client.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
		KeyName:           aws.String(keyName),
		PublicKeyMaterial: pub,
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeKeyPair,
			Tags:         tags,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImportKeyPair, err)
	}
	log.Info("imported key pair", "id", aws.ToString(result.KeyPairId), "name", keyName)

	pemData, err := keys.PrivatePEM(keyName)
	if err != nil {
		return "", err
	}
	keyPath := filepath.Join(dir, keyName+".pem")
	if err := os.WriteFile(keyPath, pemData, 0o600); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteKeyFile, err)
	}
	log.Info("saved private key", "path", keyPath)

	return keyPath, nil
}

// deleteKeyPair removes the EC2 key pair and the local pem file. keyPath may
// be empty when no file was written.
func deleteKeyPair(ctx context.Context, client *ec2.Client, keyName, keyPath string) error {
	log := clog.FromContext(ctx)
	log.Info("deleting key pair", "name", keyName)

	_, err := client.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: aws.String(keyName),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: %w", ErrDeleteKeyPair, err)
	}

	if keyPath != "" {
		if err := os.Remove(keyPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing private key file: %w", err)
		}
	}
	return nil
}
