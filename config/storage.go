package config

// StorageConfig selects and configures the object storage backend that parks
// uploaded documents between enqueue and processing.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // "minio" or "s3"
	Minio   MinioConfig `yaml:"minio"`
	S3      S3Config    `yaml:"s3"`
}

type MinioConfig struct {
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	Endpoint   string `yaml:"endpoint"`
	UseSSL     bool   `yaml:"useSSL"`
	Region     string `yaml:"region"`
	BucketName string `yaml:"bucketName"`
}

type S3Config struct {
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
}

func defaultStorageConfig() StorageConfig {
	return StorageConfig{
		Backend: "minio",
		Minio: MinioConfig{
			Endpoint:   "localhost:9000",
			BucketName: "uploads",
		},
		S3: S3Config{
			Region:     "us-east-1",
			BucketName: "uploads",
		},
	}
}

func (c *StorageConfig) applyEnv() {
	setString(&c.Backend, "STORAGE_BACKEND")

	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setBool(&c.Minio.UseSSL, "MINIO_USE_SSL")
	setString(&c.Minio.Region, "MINIO_REGION")
	setString(&c.Minio.BucketName, "MINIO_BUCKET_NAME")

	setString(&c.S3.BucketName, "AWS_S3_BUCKET_NAME")
	setString(&c.S3.Region, "AWS_REGION")
	setString(&c.S3.AccessKey, "AWS_ACCESS_KEY")
	setString(&c.S3.SecretKey, "AWS_SECRET_KEY")
}
