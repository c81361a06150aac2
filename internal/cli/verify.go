package cli

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Bidon15/deployctl/internal/deploy"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that deployed code exists at an address",
	Long: `Read back the code stored at a contract address and fail when it is
empty. Useful after a deployment, or to confirm an address from a report
still holds code.

Examples:
  deployctl verify --address 0x5FbDB2315678afecb367f032d93F642f64180aa3 \
    --rpc-url http://localhost:8545`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("rpc-url", "", "JSON-RPC endpoint of the target network")
	verifyCmd.Flags().String("address", "", "contract address to check")
	_ = verifyCmd.MarkFlagRequired("address")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	rpcURL, _ := cmd.Flags().GetString("rpc-url")
	if rpcURL == "" {
		rpcURL = os.Getenv("DEPLOYCTL_RPC_URL")
	}
	if rpcURL == "" {
		return fmt.Errorf("an RPC endpoint is required, set --rpc-url or DEPLOYCTL_RPC_URL")
	}

	addrStr, _ := cmd.Flags().GetString("address")
	if !common.IsHexAddress(addrStr) {
		return fmt.Errorf("%q is not a valid hex address", addrStr)
	}
	addr := common.HexToAddress(addrStr)

	ctx := cmd.Context()
	client, err := deploy.NewEthClientFactory().Dial(ctx, rpcURL)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", rpcURL, err)
	}
	defer client.Close()

	code, err := client.CodeAt(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("get code at %s: %w", addr.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("no code deployed at %s", addr.Hex())
	}

	fmt.Printf("Code at %s: %d bytes\n", addr.Hex(), len(code))
	return nil
}
