package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY    = "https://ipfs.io"
	DEFAULT_ARWEAVE_GATEWAY = "https://arweave.net"

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// PLACEHOLDER_NAME_PREFIX prefixes the name of items whose metadata could not be loaded
	PLACEHOLDER_NAME_PREFIX = "#"
)
