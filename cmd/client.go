package cmd

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	pb "github.com/Codelsoft-Microservices/codelsoft-users/rpc"
)

var clientOpts struct {
	addr     string
	token    string
	caFile   string
	certFile string
	keyFile  string
	timeout  time.Duration
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call a running users service",
}

var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c pb.UsersClient) (any, error) {
			return c.GetAllUsers(ctx, &pb.GetAllUsersRequest{})
		})
	},
}

var clientGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Fetch one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c pb.UsersClient) (any, error) {
			return c.GetUserByUUID(ctx, &pb.GetUserByUUIDRequest{Uuid: args[0]})
		})
	},
}

var clientDeleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c pb.UsersClient) (any, error) {
			if _, err := c.DeleteUser(ctx, &pb.DeleteUserRequest{Uuid: args[0]}); err != nil {
				return nil, err
			}
			return map[string]string{"status": "deleted"}, nil
		})
	},
}

func withClient(cmd *cobra.Command, call func(context.Context, pb.UsersClient) (any, error)) error {
	creds, err := loadClientCredentials()
	if err != nil {
		return err
	}

	conn, err := grpc.NewClient(clientOpts.addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), clientOpts.timeout)
	defer cancel()
	if clientOpts.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+clientOpts.token)
	}

	resp, err := call(ctx, pb.NewUsersClient(conn))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func loadClientCredentials() (credentials.TransportCredentials, error) {
	if clientOpts.caFile == "" {
		return insecure.NewCredentials(), nil
	}

	caCert, err := os.ReadFile(clientOpts.caFile)
	if err != nil {
		return nil, err
	}

	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("no certificates found in %s", clientOpts.caFile)
	}

	tlsConfig := &tls.Config{
		RootCAs:    caPool,
		MinVersion: tls.VersionTLS13,
	}

	if clientOpts.certFile != "" {
		cert, err := tls.LoadX509KeyPair(clientOpts.certFile, clientOpts.keyFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return credentials.NewTLS(tlsConfig), nil
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientListCmd, clientGetCmd, clientDeleteCmd)

	flags := clientCmd.PersistentFlags()
	flags.StringVar(&clientOpts.addr, "addr", "localhost:50051", "users service address")
	flags.StringVar(&clientOpts.token, "token", os.Getenv("USERS_TOKEN"), "bearer token")
	flags.StringVar(&clientOpts.caFile, "ca", "", "CA certificate; enables TLS")
	flags.StringVar(&clientOpts.certFile, "cert", "", "client certificate for mutual TLS")
	flags.StringVar(&clientOpts.keyFile, "key", "", "client key for mutual TLS")
	flags.DurationVar(&clientOpts.timeout, "timeout", 10*time.Second, "call timeout")
}
